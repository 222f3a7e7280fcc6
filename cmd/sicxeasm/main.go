// Command sicxeasm is the CLI entry point for the SIC/XE assembler: it
// wires a source path and an output path to the assembler.Assemble
// pipeline, with flags controlling extended mode and diagnostics.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sicxeasm/assembler"
	"github.com/sicxeasm/assembler/internal/config"
	"github.com/sicxeasm/assembler/internal/diag"
)

var (
	outputPath   string
	extendedMode bool
	showListing  bool
	cfgFile      string
)

var rootCmd = &cobra.Command{
	Use:   "sicxeasm <source-file>",
	Short: "A two-pass assembler for the SIC/XE instruction set",
	Long: `sicxeasm assembles SIC/XE source files into the canonical
H/D/R/T/M/E object-program record format.

Accepted source extensions are .asm and .txt (advisory only; any text
file is read as-is).`,
	Args: cobra.ExactArgs(1),
	RunE: runAssemble,
}

func init() {
	rootCmd.Flags().StringVarP(&outputPath, "out", "o", "", "Output object file path (default: <input>.obj)")
	rootCmd.Flags().BoolVar(&extendedMode, "extended", false, "Enable literal pools, program-block reordering, and EXTDEF finalization")
	rootCmd.Flags().BoolVar(&showListing, "listing", false, "Print symbol/literal/modification table dumps to stderr")
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "Path to a sicxeasm.toml config file (default: platform config dir)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sicxeasm")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
	}
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAssemble(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	if !strings.HasSuffix(inputPath, ".asm") && !strings.HasSuffix(inputPath, ".txt") {
		fmt.Fprintln(os.Stderr, color.YellowString("warning: %s does not have a .asm or .txt extension", inputPath))
	}

	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepathExt(inputPath)) + ".obj"
	}

	opts, err := loadOptions()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("extended") {
		opts.Assembler.ExtendedMode = extendedMode
	}
	if cmd.Flags().Changed("listing") {
		opts.Diagnostics.ToStderr = showListing
	}

	var sink diag.Sink
	if opts.Diagnostics.ToStderr {
		sink = func(ev diag.Event) {
			printEvent(ev)
		}
	}

	result, err := assembler.Assemble(inputPath, outputPath, opts, sink)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		return err
	}

	fmt.Println(color.GreenString("wrote %s", result.OutputPath))
	return nil
}

func loadOptions() (*config.Options, error) {
	if cfgFile != "" {
		return config.LoadFrom(cfgFile)
	}
	return config.Load()
}

func filepathExt(path string) string {
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		return path[idx:]
	}
	return ""
}

func printEvent(ev diag.Event) {
	header := color.CyanString("--- %s (%s) ---", ev.Kind, ev.Section)
	fmt.Fprintln(os.Stderr, header)
	for _, row := range ev.Rows {
		fmt.Fprintln(os.Stderr, row)
	}
}
