package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paintbox/paintbox/pkg/export"
	"github.com/paintbox/paintbox/pkg/pixel"
	"github.com/paintbox/paintbox/pkg/project"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	output      string // output file path (or base path in separate mode)
	scale       int    // integer pixel multiplier
	mode        string // "united" or "separate"
	background  string // hex background color, empty keeps transparency
	transparent bool   // force a transparent background even when configured otherwise
}

// exportCommand creates the export command that renders a project to PNG.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{mode: "united"}

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Render a project to PNG files",
		Long: `Render a .pbx project to PNG. United mode composites all visible
layers into one image; separate mode writes one file per visible layer,
named after the layer. Onion skin is never exported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("scale") {
				fileCfg, err := loadConfig()
				if err != nil {
					return err
				}
				opts.scale = fileCfg.Export.Scale
			}
			return runExport(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (united) or base path (separate)")
	cmd.Flags().IntVar(&opts.scale, "scale", defaultExportScale, "integer pixel multiplier")
	cmd.Flags().StringVar(&opts.mode, "mode", opts.mode, "export mode: united (default), separate")
	cmd.Flags().StringVar(&opts.background, "background", "", "background color as #rrggbb, empty keeps transparency")
	cmd.Flags().BoolVar(&opts.transparent, "transparent", false, "keep a transparent background")

	return cmd
}

// parseExportMode maps the --mode flag onto an export mode.
func parseExportMode(s string) (export.Mode, error) {
	switch s {
	case "united":
		return export.ModeUnited, nil
	case "separate":
		return export.ModeSeparate, nil
	default:
		return 0, fmt.Errorf("invalid mode: %s (must be 'united' or 'separate')", s)
	}
}

// exportBase derives the base output path from the output and input paths,
// stripping a .png extension when present.
func exportBase(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	return strings.TrimSuffix(output, ".png")
}

func runExport(ctx context.Context, input string, opts *exportOpts) error {
	logger := loggerFromContext(ctx)

	mode, err := parseExportMode(opts.mode)
	if err != nil {
		return err
	}

	renderOpts := export.Options{Scale: opts.scale, Mode: mode}
	if opts.background != "" && !opts.transparent {
		bg, err := pixel.ParseHex(opts.background)
		if err != nil {
			return err
		}
		renderOpts.Background = &bg
	}

	p := newProgress(logger)
	stack, err := project.Load(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded project: %dx%d, %d layers", stack.Width(), stack.Height(), stack.Len())

	results, err := export.Render(stack, renderOpts)
	if err != nil {
		return err
	}

	base := exportBase(opts.output, input)
	var paths []string
	for _, r := range results {
		path := base + ".png"
		if mode == export.ModeSeparate {
			path = fmt.Sprintf("%s_%s.png", base, sanitizeName(r.Name))
		}
		if err := writePNG(path, r); err != nil {
			return err
		}
		paths = append(paths, path)
	}

	p.done(fmt.Sprintf("Exported %d file(s)", len(paths)))
	printSuccess("Exported %s", input)
	for _, path := range paths {
		printFile(path)
	}
	return nil
}

// writePNG encodes one render result to path.
func writePNG(path string, r export.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.EncodePNG(f, r.Buffer)
}

// sanitizeName makes a layer name safe for use in a file name.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "layer"
	}
	return b.String()
}
