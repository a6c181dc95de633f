package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tagscout/pkg/config"
	"github.com/matzehuels/tagscout/pkg/errors"
)

// sampleCommand creates the sample command that writes a starter config.
func (c *CLI) sampleCommand() *cobra.Command {
	var (
		format string
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a sample configuration file",
		Long: `Write a sample configuration file listing a few well-known packages.

Formats: legacy ("name = url" lines), toml and yaml. Use -o - to print the
sample instead of writing a file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeSample(cmd.OutOrStdout(), config.Format(format), output, force)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(config.FormatLegacy), "sample format: legacy, toml or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path, or - for stdout (default config.sample.<ext>)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func writeSample(stdout io.Writer, format config.Format, output string, force bool) error {
	text, err := config.Sample(format)
	if err != nil {
		return err
	}
	if output == "-" {
		_, err := io.WriteString(stdout, text)
		return err
	}
	if output == "" {
		output = config.SampleFileName(format)
	}
	if !force {
		if _, err := os.Stat(output); err == nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", output)
		}
	}
	if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write sample: %w", err)
	}

	printSuccess("Sample configuration created")
	printFile(output)
	printNextStep("Crawl it", "tagscout crawl -c "+output)
	return nil
}
