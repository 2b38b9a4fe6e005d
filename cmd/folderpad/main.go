package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/warrenZY/folderpad/internal/broker"
	"github.com/warrenZY/folderpad/internal/culler"
	"github.com/warrenZY/folderpad/internal/exporter"
	"github.com/warrenZY/folderpad/internal/importer"
	"github.com/warrenZY/folderpad/internal/listing"
	"github.com/warrenZY/folderpad/internal/model"
	"github.com/warrenZY/folderpad/internal/picker"
	"github.com/warrenZY/folderpad/internal/search"
	"github.com/warrenZY/folderpad/internal/session"
	"github.com/warrenZY/folderpad/internal/storage"
	"github.com/warrenZY/folderpad/internal/tui"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "help", "--help", "-h":
			printHelp()
			return
		case "list":
			runList()
			return
		case "cull":
			prune := len(os.Args) >= 3 && os.Args[2] == "prune"
			runCull(prune)
			return
		case "import":
			if len(os.Args) < 3 {
				fmt.Fprintf(os.Stderr, "Usage: folderpad import <file.html>\n")
				os.Exit(1)
			}
			runImport(os.Args[2])
			return
		case "export":
			var outputPath string
			if len(os.Args) >= 3 {
				outputPath = os.Args[2]
			}
			runExport(outputPath)
			return
		default:
			// Treat all remaining arguments as a search query
			query := strings.Join(os.Args[1:], " ")
			runQuickSearch(query)
			return
		}
	}

	runTUI()
}

func printHelp() {
	fmt.Print(`folderpad - grant-based folder access and bookmark keeper

Usage:
  folderpad                  Open the interactive TUI
  folderpad <query>          Fuzzy-search granted folders, copy the match's path
  folderpad list             List saved bookmarks with their folders
  folderpad cull [prune]     Probe every bookmark, optionally drop dead ones
  folderpad import <file>    Import grants from an HTML bookmark file
  folderpad export [path]    Export grants to an HTML bookmark file
  folderpad help             Show this help

TUI Keybindings:
  Navigation:
    j/k          Move down/up
    gg/G         Jump to top/bottom
    Tab          Switch between bookmark and file panes

  Folder:
    o            Pick a folder to open
    b            Bookmark the open folder
    y            Copy the open folder's path

  Bookmarks (left pane):
    l/Enter      Open the bookmarked folder
    r            Release the bookmark
    R            Reload the bookmark list

  Files (middle pane):
    l/Enter      Load the file into the editor
    /            Filter the file list
    e/i          Edit the loaded content
    s            Save back to the loaded file
    S            Save the content under a new name
    d            Delete the file

  Other:
    ?            Show the help overlay
    q            Quit

Data Storage:
  Bookmarks:  ~/.config/folderpad/bookmarkDemo.json
  Grants:     ~/.config/folderpad/grants.json (or grants.db when present)
  Config:     ~/.config/folderpad/config.json
`)
}

func runTUI() {
	configPath, err := storage.DefaultConfigFilePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting config path: %v\n", err)
		os.Exit(1)
	}

	config, err := storage.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	registry := openRegistry()

	storePath, err := storage.DefaultStorePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting bookmark path: %v\n", err)
		os.Exit(1)
	}

	local := broker.NewLocal(registry)
	store := storage.NewJSONStore(storePath)
	cache := listing.NewCache(config.Suffix)
	ses := session.New(session.Params{Broker: local, Store: store, Cache: cache})

	start, err := os.UserHomeDir()
	if err != nil {
		start = "."
	}

	app := tui.NewApp(tui.AppParams{
		Session:     ses,
		Primer:      local,
		PickerStart: start,
		ShowHidden:  config.ShowHidden,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}

// runQuickSearch finds a granted folder matching the query and copies its
// path to the clipboard. A single match is taken directly; multiple matches
// open an interactive picker.
func runQuickSearch(query string) {
	registry := openRegistry()

	grants, err := registry.All()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading grants: %v\n", err)
		os.Exit(1)
	}

	results := search.FuzzySearchGrants(grants, query)
	if len(results) == 0 {
		fmt.Printf("No granted folders found for '%s'\n", query)
		os.Exit(0)
	}

	var selected *model.Grant
	if len(results) == 1 {
		selected = &results[0].Grant
	} else {
		p := tea.NewProgram(picker.New(results, query))
		finalModel, err := p.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running picker: %v\n", err)
			os.Exit(1)
		}

		finalPicker := finalModel.(picker.Picker)
		if finalPicker.Cancelled() {
			os.Exit(0)
		}
		selected = finalPicker.SelectedGrant()
	}

	if selected == nil {
		os.Exit(0)
	}

	if err := registry.Touch(selected.Token); err != nil {
		fmt.Fprintf(os.Stderr, "Error updating grant: %v\n", err)
	}

	if err := clipboard.WriteAll(selected.Path); err != nil {
		fmt.Fprintf(os.Stderr, "Error copying to clipboard: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Copied %s\n", selected.Path)
}

func runList() {
	tokens := loadTokens()
	if len(tokens) == 0 {
		fmt.Println("No bookmarks saved")
		return
	}

	registry := openRegistry()
	for _, token := range tokens {
		grant, err := registry.Get(token)
		if err != nil {
			fmt.Printf("  (no grant)  %s\n", token)
			continue
		}
		fmt.Printf("  %s\n      %s\n", grant.Path, token)
	}
}

// runCull probes every bookmarked token against the grant registry and
// reports its health. With prune set, dead bookmarks are removed and
// orphaned grants released.
func runCull(prune bool) {
	tokens := loadTokens()
	registry := openRegistry()

	var dead []culler.Result
	if len(tokens) == 0 {
		fmt.Println("No bookmarks to check")
	} else {
		fmt.Printf("Checking %d bookmark(s)...\n", len(tokens))

		local := broker.NewLocal(registry)
		results := culler.ProbeTokens(local, tokens, 4, nil)

		healthy := 0
		for _, r := range results {
			switch r.Status {
			case culler.Healthy:
				healthy++
				fmt.Printf("  ok       %s\n", r.Path)
			case culler.Revoked:
				dead = append(dead, r)
				fmt.Printf("  revoked  %s (%s)\n", r.Token, r.Error)
			case culler.Lost:
				dead = append(dead, r)
				fmt.Printf("  lost     %s\n", r.Token)
			}
		}
		fmt.Printf("%d healthy, %d dead\n", healthy, len(dead))
	}

	storePath, err := storage.DefaultStorePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting bookmark path: %v\n", err)
		os.Exit(1)
	}
	store := storage.NewJSONStore(storePath)

	if prune {
		for _, r := range dead {
			if tokens, err = store.Remove(r.Token); err != nil {
				fmt.Fprintf(os.Stderr, "Error removing bookmark: %v\n", err)
				os.Exit(1)
			}
			if r.Status == culler.Revoked {
				if err := registry.Delete(r.Token); err != nil {
					fmt.Fprintf(os.Stderr, "Error deleting grant: %v\n", err)
				}
			}
		}
		if len(dead) > 0 {
			fmt.Printf("Pruned %d dead bookmark(s)\n", len(dead))
		}
	}

	grants, err := registry.All()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading grants: %v\n", err)
		os.Exit(1)
	}

	orphans := culler.Orphans(grants, tokens)
	if len(orphans) == 0 {
		return
	}
	fmt.Printf("%d orphaned grant(s) not referenced by any bookmark\n", len(orphans))
	if !prune {
		return
	}
	for _, g := range orphans {
		if err := registry.Delete(g.Token); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting grant: %v\n", err)
			continue
		}
	}
	fmt.Printf("Released %d orphaned grant(s)\n", len(orphans))
}

func runImport(filePath string) {
	registry := openRegistry()

	storePath, err := storage.DefaultStorePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting bookmark path: %v\n", err)
		os.Exit(1)
	}
	store := storage.NewJSONStore(storePath)

	file, err := os.Open(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	grants, err := importer.ParseHTMLGrants(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing HTML: %v\n", err)
		os.Exit(1)
	}

	added, skipped := 0, 0
	for _, grant := range grants {
		if _, err := registry.Get(grant.Token); err == nil {
			skipped++
			continue
		}
		if err := registry.Put(grant); err != nil {
			fmt.Fprintf(os.Stderr, "Error storing grant: %v\n", err)
			os.Exit(1)
		}
		if _, err := store.Add(grant.Token); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving bookmark: %v\n", err)
			os.Exit(1)
		}
		added++
	}

	fmt.Printf("Imported %d grant(s)", added)
	if skipped > 0 {
		fmt.Printf(" (%d duplicates skipped)", skipped)
	}
	fmt.Println()
}

func runExport(outputPath string) {
	if outputPath == "" {
		var err error
		outputPath, err = exporter.DefaultExportPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting export path: %v\n", err)
			os.Exit(1)
		}
	}

	registry := openRegistry()
	grants, err := registry.All()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading grants: %v\n", err)
		os.Exit(1)
	}

	html := exporter.ExportHTML(grants)
	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing export file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported %d grant(s) to %s\n", len(grants), outputPath)
}

// openRegistry opens the grant registry in its default location, exiting
// on failure.
func openRegistry() broker.Registry {
	dir, err := broker.DefaultRegistryDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting registry dir: %v\n", err)
		os.Exit(1)
	}

	registry, err := broker.OpenRegistry(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening registry: %v\n", err)
		os.Exit(1)
	}
	return registry
}

// loadTokens loads the bookmarked tokens from the default store, exiting
// on failure. A malformed file is reported and treated as empty.
func loadTokens() model.TokenSet {
	storePath, err := storage.DefaultStorePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting bookmark path: %v\n", err)
		os.Exit(1)
	}

	tokens, err := storage.NewJSONStore(storePath).Load()
	if err != nil {
		if !errors.Is(err, storage.ErrParse) {
			fmt.Fprintf(os.Stderr, "Error loading bookmarks: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Warning: bookmark file is malformed, treating it as empty")
	}

	return tokens
}
