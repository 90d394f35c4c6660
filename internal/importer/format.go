// format.go defines the YAML archive file.
//
// Documents nest their answers and answers nest their comments, so most
// files need no cross references beyond categories and usernames. Replies
// added to documents already in the archive go in the top-level answers
// and comments lists, which reference their parent by filename or long ID.
// Replies without an id get a generated one, so re-importing them adds
// them again.

package importer

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// File is one archive import file.
type File struct {
	Categories []Category `yaml:"categories"`
	Users      []User     `yaml:"users"`
	Documents  []Document `yaml:"documents"`
	Answers    []Answer   `yaml:"answers"`  // answers to documents named by filename
	Comments   []Comment  `yaml:"comments"` // comments on answers named by long ID
}

type Category struct {
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`
}

type User struct {
	Username        string    `yaml:"username"`
	FirstName       string    `yaml:"first_name"`
	LastName        string    `yaml:"last_name"`
	Admin           bool      `yaml:"admin"`
	AdminCategories []string  `yaml:"admin_categories"` // category slugs
	Payments        []Payment `yaml:"payments"`
}

type Payment struct {
	Time   time.Time  `yaml:"time"`
	Refund *time.Time `yaml:"refund"`
}

type Document struct {
	Filename     string   `yaml:"filename"`
	Name         string   `yaml:"name"`
	Category     string   `yaml:"category"` // slug
	Public       bool     `yaml:"public"`
	NeedsPayment bool     `yaml:"needs_payment"`
	Pages        []string `yaml:"pages"` // numbered from 1
	Answers      []Answer `yaml:"answers"`
}

type Answer struct {
	ID       string    `yaml:"id"`       // long ID; generated when empty
	Document string    `yaml:"document"` // filename; top-level answers only
	Author   string    `yaml:"author"`   // username
	Text     string    `yaml:"text"`
	Comments []Comment `yaml:"comments"`
}

type Comment struct {
	ID     string `yaml:"id"`
	Answer string `yaml:"answer"` // long ID; top-level comments only
	Author string `yaml:"author"`
	Text   string `yaml:"text"`
}

// Parse decodes an archive file. Unknown fields are rejected so a typo
// cannot silently drop data.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("parse archive: %w", err)
	}
	return &f, nil
}
