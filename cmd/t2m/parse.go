package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/woozymasta/t2m"
)

// parseOutput is the JSON document printed by the parse command.
type parseOutput struct {
	Properties t2m.MaterialProperties `json:"properties"`
	Issues     []t2m.Issue            `json:"issues"`
}

func (a *app) newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a chat reply into material properties",
		Long:  "Parse reads a \"Key: value, Key: value\" reply from a file or stdin and prints the parsed properties and validation issues as JSON.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runParse,
	}

	f := cmd.Flags()
	f.String("grammar", "", "Color grammar: floats, html")
	f.Bool("ignore-case", false, "Match keys case-insensitively")
	f.Int("tolerance", 0, "Maximum edit distance for misspelled keys")
	f.Bool("hdr", false, "Allow emission components above 1")

	return cmd
}

func (a *app) runParse(cmd *cobra.Command, args []string) error {
	grammarName, _ := cmd.Flags().GetString("grammar")
	ignoreCase, _ := cmd.Flags().GetBool("ignore-case")
	tolerance, _ := cmd.Flags().GetInt("tolerance")
	hdr, _ := cmd.Flags().GetBool("hdr")

	grammar, err := t2m.ParseColorGrammar(grammarName)
	if err != nil {
		return err
	}

	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	props, err := t2m.Decode(r, &t2m.ParseOptions{
		ColorGrammar:        grammar,
		CaseInsensitiveKeys: ignoreCase,
		KeyTolerance:        tolerance,
	})
	if err != nil {
		return err
	}

	out := parseOutput{
		Properties: props,
		Issues:     t2m.Validate(props, &t2m.ValidateOptions{AllowHDREmission: hdr}),
	}
	if out.Issues == nil {
		out.Issues = []t2m.Issue{}
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
