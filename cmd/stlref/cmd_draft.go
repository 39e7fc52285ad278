package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stlref/stlref/ingest"
	ingestpdf "github.com/stlref/stlref/ingest/pdf"
)

var (
	draftSlug string
	draftOut  string
)

var draftCmd = &cobra.Command{
	Use:   "draft <url|file>",
	Short: "Draft a topic skeleton from a reference page, PDF, or text file",
	Long: `Extracts the text of a source document and emits a TOML topic
skeleton for the author to complete. Sources:

  https://...   a reference web page (readability extraction)
  *.pdf         a PDF manual
  anything else a plain-text file`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDraft(args[0])
		if err != nil {
			return err
		}

		slug := draftSlug
		if slug == "" {
			slug = slugify(d.Title)
		}
		topic := d.Skeleton(slug)

		out := os.Stdout
		if draftOut != "" {
			f, err := os.Create(draftOut)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		if err := ingest.EncodeTOML(out, topic); err != nil {
			return err
		}
		if draftOut != "" {
			fmt.Fprintf(os.Stderr, "drafted %s (%d stub entries) from %s\n",
				draftOut, len(topic.Entries), d.Source)
		}
		return nil
	},
}

func loadDraft(source string) (ingest.Draft, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Get(source)
		if err != nil {
			return ingest.Draft{}, fmt.Errorf("fetch %s: %w", source, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return ingest.Draft{}, fmt.Errorf("fetch %s: %s", source, resp.Status)
		}
		return ingest.FromHTML(resp.Body, source)
	}

	content, err := os.ReadFile(source)
	if err != nil {
		return ingest.Draft{}, err
	}
	if strings.EqualFold(filepath.Ext(source), ".pdf") {
		return ingestpdf.FromBytes(content, source)
	}

	title := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return ingest.FromText(title, string(content), source), nil
}

// slugify lowercases a title into a usable topic slug.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func init() {
	draftCmd.Flags().StringVar(&draftSlug, "slug", "", "topic slug (default derived from the title)")
	draftCmd.Flags().StringVarP(&draftOut, "out", "o", "", "output file (default stdout)")
}
