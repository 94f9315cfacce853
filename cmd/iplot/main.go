package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/iplot/internal/config"
	"github.com/san-kum/iplot/internal/export"
	"github.com/san-kum/iplot/internal/frames"
	"github.com/san-kum/iplot/internal/session"
	"github.com/san-kum/iplot/internal/viz"
)

var (
	configFile string
	exportFile string
	fps        float64
	format     string
	logFile    string
	theme      string
	force      bool
	jsonOut    string
	workers    int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if session.IsConfiguration(err) {
			fmt.Fprintln(os.Stderr, "run iplot --help for usage")
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "iplot [outdir] [setplot] [plotdir]",
		Short: "browse fort.q solution frames in the terminal",
		Long: "iplot steps through the fort.q* frames of a solver output directory.\n" +
			"With --export-file and --frames-per-second it writes an animated GIF and exits.",
		Args: cobra.MaximumNArgs(3),
		RunE: runBrowser,
	}
	rootCmd.Flags().StringVar(&exportFile, "export-file", "", "write an animation to this .gif file and exit")
	rootCmd.Flags().Float64Var(&fps, "frames-per-second", config.DefaultAnimationFPS, "animation frame rate")
	rootCmd.Flags().StringVar(&format, "format", "", "image format for saved frames (png|svg)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "log file used while the browser is open")
	rootCmd.Flags().StringVar(&theme, "theme", "", fmt.Sprintf("color theme %v", viz.ThemeNames()))
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default .iplot.yaml when present)")

	listCmd := &cobra.Command{
		Use:   "list [outdir]",
		Short: "list the frames of an output directory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listFrames,
	}
	listCmd.Flags().StringVar(&jsonOut, "json", "", "write the listing as JSON to a file, or - for stdout")
	listCmd.Flags().IntVar(&workers, "workers", 0, "parallel parsers (0 uses GOMAXPROCS)")

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	rootCmd.AddCommand(listCmd, initCmd)
	return rootCmd
}

func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.LoadDefault(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	explicit := ""
	if len(args) > 0 {
		explicit = args[0]
	} else if cfg.Outdir != config.DefaultOutdir {
		explicit = cfg.Outdir
	}
	cfg.Outdir = config.ResolveOutdir(explicit, ".")
	if len(args) > 1 {
		cfg.Setplot = args[1]
	}
	if len(args) > 2 {
		cfg.Plotdir = args[2]
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = format
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	return cfg, nil
}

func runBrowser(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := config.ValidateExportFlags(exportFile, cmd.Flags().Changed("frames-per-second"), fps); err != nil {
		return err
	}

	s, err := session.New(cfg)
	if err != nil {
		return err
	}
	if exportFile != "" {
		if err := s.Export(exportFile, fps); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", exportFile)
		return nil
	}
	return s.Interactive()
}

func listFrames(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	src, err := frames.Open(cfg.Outdir, cfg.CacheSize)
	if err != nil {
		return err
	}
	all, err := src.LoadAll(cmd.Context(), workers)
	if err != nil {
		return err
	}
	sum := export.Summarize(src, all)

	if jsonOut != "" {
		if jsonOut == "-" {
			return export.WriteSummary(os.Stdout, sum)
		}
		return export.WriteSummaryFile(jsonOut, sum)
	}

	if sum.Count == 0 {
		fmt.Printf("no %s files in %s\n", frames.Pattern, cfg.Outdir)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tFILE\tFRAME\tTIME\tDIM\tPATCHES\tLEVELS\tMEQN")

	times := make([]float64, 0, len(sum.Frames))
	for _, f := range sum.Frames {
		fmt.Fprintf(w, "%d\t%s\t%d\t%g\t%dd\t%d\t%d\t%d\n",
			f.Index, f.File, f.Frame, f.Time, f.Dim, f.Patches, f.Levels, f.Meqn)
		times = append(times, f.Time)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(times) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(times,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("time by frame index"),
		))
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := config.DefaultFile
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
