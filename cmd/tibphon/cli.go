package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gomlx/go-tibphon/pipeline"
	"github.com/gomlx/go-tibphon/server"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var (
	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("147"))
	textStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

// NewCLI returns the root command. goFlags, if not nil, are added to the persistent flags:
// that's how the klog flags are exposed.
func NewCLI(goFlags *flag.FlagSet) *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "tibphon",
		Short:         "Tibetan segmentation and phonetics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML file listing the resources (exceptions, Sanskrit table, tokenizer, lexicon); embedded defaults if empty")
	if goFlags != nil {
		root.PersistentFlags().AddGoFlagSet(goFlags)
	}
	root.AddCommand(segmentCmd(&configPath), serveCmd(&configPath))
	return root
}

func loadPipeline(cmd *cobra.Command, configPath string) (*pipeline.Pipeline, error) {
	var cfg pipeline.Config
	if configPath != "" {
		var err error
		if cfg, err = pipeline.LoadConfig(configPath); err != nil {
			return nil, err
		}
	}
	return pipeline.New(cmd.Context(), cfg)
}

func segmentCmd(configPath *string) *cobra.Command {
	var strategy, sanskritMode, anusvara string
	var asJSON, phoneticizeOnly bool
	cmd := &cobra.Command{
		Use:   "segment [text...]",
		Short: "Segment text and render its phonetics; the text is read from stdin if not given",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := pipeline.ParseRequest(strategy, sanskritMode, anusvara)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			if len(args) == 0 {
				content, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return errors.Wrap(err, "failed to read stdin")
				}
				text = strings.TrimRight(string(content), "\r\n")
			}
			p, err := loadPipeline(cmd, *configPath)
			if err != nil {
				return err
			}

			var out pipeline.Output
			if phoneticizeOnly {
				out = p.Phoneticize(text, req)
			} else {
				out = p.Process(text, req)
			}
			for _, d := range out.Degraded {
				klog.Warningf("Text passed through unsegmented (%v): %q", d.Err, d.Chunk)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			w := cmd.OutOrStdout()
			for _, section := range []struct{ label, text string }{
				{"Segmented", out.Segmented},
				{"KVP", out.KVP},
				{"IPA", out.IPA},
			} {
				if _, err := fmt.Fprintf(w, "%s\n%s\n", labelStyle.Render(section.label), textStyle.Render(section.text)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&strategy, "strategy", "words", "segmentation strategy: words, one or two")
	cmd.Flags().StringVar(&sanskritMode, "sanskrit-mode", "", "rendering of Sanskrit: keep (unknown marker), iast or phonetics")
	cmd.Flags().StringVar(&anusvara, "anusvara", "ṃ", "IAST anusvara: ṃ (default) or ṁ (alternate)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&phoneticizeOnly, "segmented", false, "the text is already segmented: only render its phonetics")
	return cmd
}

func serveCmd(configPath *string) *cobra.Command {
	var addr, webDir string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and, optionally, the web interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadPipeline(cmd, *configPath)
			if err != nil {
				return err
			}
			return server.ListenAndServe(cmd.Context(), addr, server.New(p, webDir))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":5000", "address to listen on")
	cmd.Flags().StringVar(&webDir, "web", "", "directory with the static files of the web interface")
	return cmd
}
