package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/viant/recordsync/document"
	"github.com/viant/recordsync/engine"
	"github.com/viant/recordsync/internal/config"
	"github.com/viant/recordsync/record"
	"github.com/viant/recordsync/recordsync"
	"github.com/viant/recordsync/remote"
)

func main() {
	cmd := flag.String("cmd", "list", "Command: list|add|form")
	configPath := flag.String("config", "config.json", "Path to JSON config (optional)")
	server := flag.String("server", "", "Remote collection base URL (default: local database)")
	name := flag.String("name", "", "Client name (add)")
	secondary := flag.String("secondary", "", "Phone or class, depending on schema (add)")
	flag.Parse()

	if err := run(*cmd, *configPath, *server, record.Draft{Name: *name, Secondary: *secondary}); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cmd, configPath, server string, draft record.Draft) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if server != "" {
		cfg.RemoteURL = server
	}
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer logger.Close()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	opts, err := cfg.ControllerOptions(logger)
	if err != nil {
		return err
	}
	c, err := recordsync.New(store, opts)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx := context.Background()
	switch cmd {
	case "list":
		if res := <-c.Load(ctx); !res.OK() {
			return res.Err
		}
		printRecords(os.Stdout, c.Schema(), c.Records())
	case "add":
		c.SetDraft(draft)
		res := <-c.Submit(ctx, c.Draft())
		if !res.OK() {
			return res.Err
		}
		fmt.Printf("registered %s\n", res.ID)
		printRecords(os.Stdout, c.Schema(), c.Records())
	case "form":
		return runForm(ctx, c, os.Stdin, os.Stdout)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func openStore(cfg *config.Config) (document.Store, func(), error) {
	if cfg.RemoteURL != "" {
		client, err := remote.NewClient(cfg.RemoteURL, nil)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	}
	db, err := engine.Open(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	store, err := document.NewSQLiteStore(context.Background(), db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, func() { _ = db.Close() }, nil
}

// runForm reads name and secondary value pairs from in, submitting each
// pair and printing the refreshed list. It stops at EOF.
func runForm(ctx context.Context, c *recordsync.Controller, in io.Reader, out io.Writer) error {
	schema := c.Schema()
	if res := <-c.Load(ctx); res.OK() {
		printRecords(out, schema, c.Records())
	}
	scanner := bufio.NewScanner(in)
	prompt := func(label string) (string, bool) {
		fmt.Fprintf(out, "%s: ", label)
		if !scanner.Scan() {
			return "", false
		}
		// Lines are kept as typed; only a CRLF terminator is dropped.
		return strings.TrimSuffix(scanner.Text(), "\r"), true
	}
	for {
		v, ok := prompt(fieldLabel(schema.Name))
		if !ok {
			break
		}
		c.SetName(v)
		if v, ok = prompt(fieldLabel(schema.Secondary)); !ok {
			break
		}
		c.SetSecondary(v)

		res := <-c.Submit(ctx, c.Draft())
		if !res.OK() {
			fmt.Fprintln(out, "Error:", res.Err)
			continue
		}
		printRecords(out, schema, c.Records())
	}
	fmt.Fprintln(out)
	return scanner.Err()
}

func printRecords(w io.Writer, schema record.Schema, records []record.Record) {
	fmt.Fprintln(w, "Lista de Clientes:")
	width := utf8.RuneCountInString(fieldLabel(schema.Name))
	for _, r := range records {
		if n := utf8.RuneCountInString(r.Name); n > width {
			width = n
		}
	}
	for _, r := range records {
		fmt.Fprintf(w, "  %-*s  %s\n", width, r.Name, r.Secondary)
	}
}

func fieldLabel(field string) string {
	if field == "" {
		return field
	}
	r, size := utf8.DecodeRuneInString(field)
	return string(unicode.ToUpper(r)) + field[size:]
}
