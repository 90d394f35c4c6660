package service_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jpl-au/examdex/internal/archive"
	"github.com/jpl-au/examdex/internal/config"
	"github.com/jpl-au/examdex/internal/format"
	"github.com/jpl-au/examdex/internal/importer"
	"github.com/jpl-au/examdex/internal/repo"
	"github.com/jpl-au/examdex/internal/search"
	"github.com/jpl-au/examdex/internal/service"
)

const exampleArchive = `
categories:
  - slug: default
users:
  - username: alice
    last_name: Liddell
documents:
  - filename: abc.pdf
    name: Test
    category: default
    public: true
    pages:
      - the answer is uniqueidthatwecansearch
  - filename: hidden.pdf
    name: Hidden
    category: default
    pages:
      - uniqueidthatwecansearch again
`

// tempArchive creates a temporary archive with the example data imported.
func tempArchive() (service.Service, func()) {
	dir, err := os.MkdirTemp("", "examdex-example-*")
	if err != nil {
		panic(err)
	}
	if err := archive.Init(false, "", false, dir); err != nil {
		panic(err)
	}
	svc, err := archive.Open(context.Background(), filepath.Join(dir, repo.Dir, repo.DBFile), &config.Config{})
	if err != nil {
		panic(err)
	}
	file := filepath.Join(dir, "archive.yaml")
	if err := os.WriteFile(file, []byte(exampleArchive), 0644); err != nil {
		panic(err)
	}
	if _, err := svc.Import(context.Background(), io.Discard, file, importer.Options{}); err != nil {
		panic(err)
	}
	cleanup := func() {
		svc.Close()
		os.RemoveAll(dir)
	}
	return svc, cleanup
}

func Example_search() {
	svc, cleanup := tempArchive()
	defer cleanup()
	ctx := context.Background()

	// Anonymous requesters only see public documents.
	r, _ := svc.Requester(ctx, "")
	resp, err := svc.Search(ctx, search.Request{Term: "uniqueidthatwecansearch", Requester: r})
	if err != nil {
		panic(err)
	}
	for _, res := range resp.Results {
		fmt.Println(res.Kind, res.Document.DisplayName)
		for _, p := range res.Document.Pages {
			fmt.Printf("page %d: %s\n", p.Number, format.Excerpt(p.Highlight))
		}
	}
	// Output:
	// document Test
	// page 1: the answer is **uniqueidthatwecansearch**
}

func Example_globalAdmin() {
	svc, cleanup := tempArchive()
	defer cleanup()
	ctx := context.Background()

	resp, _ := svc.Search(ctx, search.Request{
		Term:      "uniqueidthatwecansearch",
		Requester: search.Requester{GlobalAdmin: true},
	})
	fmt.Println(resp.Count(search.KindDocument))
	// Output:
	// 2
}

func Example_stats() {
	svc, cleanup := tempArchive()
	defer cleanup()

	st, _ := svc.Stats(context.Background())
	fmt.Println("Documents:", st.Documents)
	fmt.Println("Pages:", st.Pages)
	fmt.Println("Backend:", svc.Backend())
	// Output:
	// Documents: 2
	// Pages: 2
	// Backend: sqlite
}
