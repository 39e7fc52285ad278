// Binary stlref is the command-line interface to the reference catalog:
// browse topics, look up operations, search, verify worked examples, export
// the HTML site, and sync the catalog into a database.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stlref/stlref"
	"github.com/stlref/stlref/docs"
	"github.com/stlref/stlref/eval"
	"github.com/stlref/stlref/internal/config"
	"github.com/stlref/stlref/search"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "stlref",
	Short: "stlref - standard library reference catalog",
	Long: `stlref is a reference catalog of standard-library algorithm and
bit-manipulation operations. Every documented operation carries a worked
example whose output is verified against a runnable reference
implementation, so the documentation cannot drift from behavior.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load(configPath)
	},
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List catalog topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog()
		if err != nil {
			return err
		}
		for _, t := range c.Topics() {
			fmt.Printf("%-12s %s (%d operations)\n", t.Slug, t.Title, len(t.Entries))
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list <topic>",
	Short: "List the operations of a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog()
		if err != nil {
			return err
		}
		entries, err := c.Entries(args[0])
		if err != nil {
			return err
		}
		category := ""
		for _, e := range entries {
			if e.Category != "" && e.Category != category {
				category = e.Category
				fmt.Printf("\n%s\n", category)
			}
			fmt.Printf("  %s\n", e.Name)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <operation>",
	Short: "Show one documented operation",
	Long: `Shows the documentation of a single operation, found by name across
all topics. Use topic/name to disambiguate a name documented in more
than one topic, e.g. "stlref show bitset/count".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog()
		if err != nil {
			return err
		}
		var e stlref.Entry
		if slug, name, ok := strings.Cut(args[0], "/"); ok {
			e, err = c.LookupIn(slug, name)
		} else {
			e, err = c.Lookup(args[0])
		}
		if err != nil {
			return err
		}
		printEntry(e)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog by keyword",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog()
		if err != nil {
			return err
		}
		query := strings.Join(args, " ")
		results := search.New(c).Search(query, 10)
		if len(results) == 0 {
			fmt.Printf("no matches for %q\n", query)
			return nil
		}
		for _, r := range results {
			fmt.Printf("%s/%s\n    %s\n", r.Topic, r.Entry.Name, r.Snippet)
		}
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run every worked example and check its documented output",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog()
		if err != nil {
			return err
		}
		failures := eval.VerifyCatalog(c)
		examples := 0
		for _, t := range c.Topics() {
			for i := range t.Entries {
				if t.Entries[i].HasExample() {
					examples++
				}
			}
		}
		if len(failures) == 0 {
			fmt.Printf("ok: %d worked examples verified\n", examples)
			return nil
		}
		for _, f := range failures {
			fmt.Fprintln(os.Stderr, f.String())
		}
		return fmt.Errorf("%d of %d worked examples failed", len(failures), examples)
	},
}

// loadCatalog builds the catalog from the embedded topic files.
func loadCatalog() (*stlref.Catalog, error) {
	return stlref.LoadCatalog(docs.FS, "topics")
}

// printEntry writes one entry in the terminal layout shared by show.
func printEntry(e stlref.Entry) {
	fmt.Println(e.Name)
	if e.Category != "" {
		fmt.Printf("category: %s\n", e.Category)
	}
	fmt.Printf("\n%s\n", e.Description)
	if e.HasExample() {
		fmt.Printf("\n    %s\n    => %s\n", e.Example.Invocation, e.Example.Output)
	}
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default stlref.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(topicsCmd, listCmd, showCmd, searchCmd, verifyCmd,
		exportCmd, syncCmd, draftCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
