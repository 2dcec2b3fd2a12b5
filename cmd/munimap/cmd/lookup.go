package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	pkgerrors "errors"

	"github.com/spf13/cobra"

	"github.com/openmuni/munimap/internal/cmd/output"
	"github.com/openmuni/munimap/internal/cmd/table"
	"github.com/openmuni/munimap/pkg/constants"
	"github.com/openmuni/munimap/pkg/errors"
	"github.com/openmuni/munimap/pkg/registry"
	"github.com/openmuni/munimap/pkg/snapshot"
)

var (
	lookupSnapshot string
	lookupUF       string
	lookupName     string
	lookupCode     string
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Query municipalities by region, name fragment or code",
	Long: `Lookup searches the registry snapshot by federative unit, name
fragment and municipality code. Region matching is exact and
case-insensitive; names match on a case-insensitive substring of the
preferred (IBGE) name; codes match either the TOM or the IBGE code.
At most 50 results are shown per query.

With no filter flags, lookup enters an interactive loop: enter a region
to query, or an empty region to quit. Extraterritorial records ("EX")
are searchable even though they are never exported.`,
	Example: `  munimap lookup --uf DF
  munimap lookup --uf SP --name guaçu
  munimap lookup --code 3550308
  munimap lookup  # interactive`,
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().StringVar(&lookupSnapshot, "snapshot", "", "Snapshot file to query (default: new, then base)")
	lookupCmd.Flags().StringVar(&lookupUF, "uf", "", "Federative unit, e.g. DF")
	lookupCmd.Flags().StringVar(&lookupName, "name", "", "Name fragment, case-insensitive")
	lookupCmd.Flags().StringVar(&lookupCode, "code", "", "TOM or IBGE code, exact")
}

func runLookup(cmd *cobra.Command, _ []string) error {
	collection, err := loadCollection()
	if err != nil {
		return err
	}

	// Single query when any filter flag is set
	if lookupUF != "" || lookupName != "" || lookupCode != "" {
		return printMatches(collection, registry.Filter{
			UF:           lookupUF,
			NameContains: lookupName,
			Code:         lookupCode,
		})
	}

	return interactiveLookup(cmd.InOrStdin(), collection)
}

// interactiveLookup prompts for region, name fragment and code until an
// empty region input ends the session.
func interactiveLookup(in io.Reader, collection *registry.Collection) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Print("UF (empty to quit): ")
		if !scanner.Scan() {
			break
		}
		uf := strings.TrimSpace(scanner.Text())
		if uf == "" {
			break
		}

		fmt.Print("Name contains (optional): ")
		if !scanner.Scan() {
			break
		}
		name := strings.TrimSpace(scanner.Text())

		fmt.Print("Code (optional): ")
		if !scanner.Scan() {
			break
		}
		code := strings.TrimSpace(scanner.Text())

		if err := printMatches(collection, registry.Filter{
			UF:           uf,
			NameContains: name,
			Code:         code,
		}); err != nil {
			return err
		}
		fmt.Println()
	}

	return scanner.Err()
}

// loadCollection parses the lookup snapshot, preferring the new snapshot
// and falling back to the frozen base.
func loadCollection() (*registry.Collection, error) {
	paths := []string{lookupSnapshot}
	if lookupSnapshot == "" {
		paths = []string{
			stringSetting("", "new_snapshot"),
			stringSetting("", "base_snapshot"),
		}
		if paths[0] == "" {
			paths[0] = constants.DefaultNewSnapshot
		}
		if paths[1] == "" {
			paths[1] = constants.DefaultBaseSnapshot
		}
	}

	var lastErr error
	for _, path := range paths {
		snap, err := snapshot.Load(path)
		if err != nil {
			if pkgerrors.Is(err, errors.ErrSnapshotMissing) {
				lastErr = err
				continue
			}
			return nil, err
		}
		collection, skipped := registry.ParseLines(snap.Lines)
		if skipped > 0 && globalFlags.Verbose {
			fmt.Fprintf(os.Stderr, "Skipped %d malformed or blank rows\n", skipped)
		}
		return collection, nil
	}

	return nil, lastErr
}

// printMatches renders query results using the configured output format.
// The table format gets the canonical column layout; structured formats
// receive the records directly.
func printMatches(collection *registry.Collection, filter registry.Filter) error {
	matches := collection.Find(filter)
	if len(matches) == 0 {
		fmt.Println("No matches")
		return nil
	}

	format, err := output.ParseFormat(globalFlags.Output)
	if err != nil {
		return err
	}
	formatter := output.NewFormatter(format)

	var payload any = matches
	if format == output.FormatTable {
		payload = table.Records(matches)
	}
	if err := formatter.Format(os.Stdout, payload); err != nil {
		return err
	}

	if len(matches) == constants.LookupResultLimit {
		fmt.Printf("Showing first %d matches; narrow the query for more\n", constants.LookupResultLimit)
	}
	return nil
}
