package commands

import (
	"agrafa/internal/afa"
	"agrafa/internal/directory"
	"context"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// loadDirectory creates a report client and loads every code table through it.
func loadDirectory(ctx context.Context) (*afa.Client, *directory.Directory, error) {
	client := afa.NewClient(cfg.clientOptions(), tel)
	dir, err := directory.New(ctx, client, tel)
	if err != nil {
		return nil, nil, err
	}
	return client, dir, nil
}
