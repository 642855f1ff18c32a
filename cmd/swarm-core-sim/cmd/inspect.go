package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aegis-robotics/swarm-coord/cmd/swarm-core-sim/democatalog"
	"github.com/aegis-robotics/swarm-coord/pkg/catalog"
)

var inspectPatternID string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the demo pattern catalog",
	Long:  `Inspect loads the built-in demo catalog and prints its patterns, or one pattern's full detail with --pattern.`,
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectPatternID, "pattern", "", "print full detail for a single pattern id")
}

func runInspect(_ *cobra.Command, _ []string) error {
	cat, err := democatalog.Build()
	if err != nil {
		return fmt.Errorf("build demo catalog: %w", err)
	}

	if inspectPatternID != "" {
		return printPatternDetail(cat, inspectPatternID)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tHARDWARE\tROLE\tAUTONOMY\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "--\t--------\t----\t--------\t-----------")
	for _, id := range cat.OrderedIDs() {
		p, ok := cat.Lookup(id)
		if !ok {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Core.Hardware, p.Core.Role, p.Core.Autonomy, p.Description)
	}
	fmt.Printf("\n%d patterns\n", cat.Size())
	return w.Flush()
}

func printPatternDetail(cat *catalog.CatalogIndex, id string) error {
	p, ok := cat.Lookup(id)
	if !ok {
		return fmt.Errorf("no pattern with id %q", id)
	}

	fmt.Printf("%s\n", p.ID)
	fmt.Printf("  description:       %s\n", p.Description)
	fmt.Printf("  mode/autonomy:     %s / %s\n", p.Core.Mode, p.Core.Autonomy)
	fmt.Printf("  role/ownership:    %s / %s\n", p.Core.Role, p.Core.Ownership)
	fmt.Printf("  traits/hardware:   %s / %s\n", p.Core.Traits, p.Core.Hardware)
	fmt.Printf("  battery floor:     %.2f\n", p.Preconditions.BatteryFloor)
	fmt.Printf("  pos quality floor: %.2f\n", p.Preconditions.PositionQualityFloor)
	fmt.Printf("  min references:    %d\n", p.Preconditions.MinReferences)
	fmt.Printf("  valid_from:        %s\n", strings.Join(p.Preconditions.ValidFrom, ", "))
	fmt.Printf("  valid_to:          %s\n", strings.Join(p.Postconditions.ValidTo, ", "))

	if len(p.Postconditions.ForcedExits) > 0 {
		fmt.Println("  forced_exits:")
		for _, fe := range p.Postconditions.ForcedExits {
			fmt.Printf("    %s -> %s\n", fe.Condition, fe.TargetPattern)
		}
	}
	fmt.Printf("  generator:         %s\n", p.Generator.Type)
	fmt.Printf("  verification:      %s\n", p.Verification.Status)
	return nil
}
