package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paintbox/paintbox/internal/editor"
)

// editCommand creates the edit command that opens the interactive editor.
func (c *CLI) editCommand() *cobra.Command {
	var width, height int
	var ansi bool

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Open a project in the interactive editor",
		Long: `Open a .pbx project in the terminal editor. With no file a scratch
project is created in the working directory. Flags override the canvas
size from the config file for new projects only; existing projects keep
their saved dimensions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg, err := fileCfg.editorConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("width") {
				cfg.Width = width
			}
			if cmd.Flags().Changed("height") {
				cfg.Height = height
			}
			if ansi {
				cfg.TrueColor = false
			}

			path := "untitled.pbx"
			if len(args) == 1 {
				path = args[0]
			}

			c.Logger.Debugf("Opening editor: %s (%dx%d)", path, cfg.Width, cfg.Height)
			if err := editor.Run(path, cfg, c.Logger); err != nil {
				return fmt.Errorf("editor: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 30, "canvas width for new projects")
	cmd.Flags().IntVar(&height, "height", 30, "canvas height for new projects")
	cmd.Flags().BoolVar(&ansi, "ansi", false, "quantize colors to the 256-color terminal palette")

	return cmd
}
