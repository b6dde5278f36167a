package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mash-protocol/unbox-go/pkg/netconf"
)

// compilers maps a device kind to its sheet compiler.
var compilers = map[string]func(io.Reader) ([]string, error){
	"switch": netconf.CompileSwitch,
	"router": netconf.CompileRouter,
}

// Compile returns the compile command.
func Compile() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "compile <switch|router> <sheet.csv>",
		Short: "Compile a switch or router sheet into commands",
		Long: `Compile a semicolon separated sheet into an IOS command list.

Switch sheets have the columns Vlan;Description;IP Address;Netmask;Ports;Switch.
Router sheets have the columns
network;interface;description;vlan;ipaddress;subnetmask;defaultgateway.

Examples:
  unbox compile switch core.csv -o switch_config.txt
  unbox compile router wan.csv`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"switch", "router"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(args[0], args[1], output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write commands to this file instead of stdout")

	return cmd
}

func runCompile(kind, sheet, output string, stdout io.Writer) error {
	compile, ok := compilers[kind]
	if !ok {
		return fmt.Errorf("unknown device kind: %s (supported: switch, router)", kind)
	}

	f, err := os.Open(sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet: %w", err)
	}
	defer f.Close()

	commands, err := compile(f)
	if err != nil {
		return err
	}

	if output == "" {
		_, err := io.WriteString(stdout, strings.Join(commands, "\n")+"\n")
		return err
	}
	if err := netconf.WriteArtifact(output, commands); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%d commands saved to %s\n", len(commands), output)
	return nil
}
