package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"matebuilder/cmd/mate/ui"
	"matebuilder/internal/allocation"
	"matebuilder/internal/catalog"
)

var (
	catalogPolarity string
	catalogTag      string
)

// catalogCmd lists the token catalog and bucket rules
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List trait tokens and bucket rules",
	Long: `Prints the configured token catalog and the bucket rules.

Examples:
  mate catalog
  mate catalog --polarity negative
  mate catalog --tag family`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().StringVar(&catalogPolarity, "polarity", "", "Only show positive or negative tokens")
	catalogCmd.Flags().StringVar(&catalogTag, "tag", "", "Only show tokens with this tag")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cat, err := cfg.Catalog()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}

	pol := catalog.Polarity(strings.ToLower(catalogPolarity))
	if pol != "" && !pol.Valid() {
		return fmt.Errorf("unknown polarity %q (valid: positive, negative)", catalogPolarity)
	}
	tag := catalog.Tag(strings.ToLower(catalogTag))

	tokens := cat.Filter(func(t catalog.Token) bool {
		if pol != "" && t.Polarity != pol {
			return false
		}
		return tag == "" || t.HasTag(tag)
	})

	styles := ui.DefaultStyles()
	out := cmd.OutOrStdout()

	rt := ui.NewTable(fmt.Sprintf("Buckets (start with %d coins)", rules.InitialCoins), "bucket", "accepts", "price", "limit", "")
	for _, b := range allocation.Placements {
		bc, _ := rules.Config(b)
		limit := "-"
		if bc.Limit > 0 {
			limit = fmt.Sprint(bc.Limit)
		}
		rt.AddRow(string(b), string(bc.Accepts), "×"+bc.Multiplier.String(), limit, bc.Title)
	}
	fmt.Fprintln(out, rt.View(styles))

	tt := ui.NewTable(fmt.Sprintf("Tokens (%d of %d)", len(tokens), cat.Len()), "id", "token", "coins", "polarity", "tags")
	for _, t := range tokens {
		tags := make([]string, len(t.Tags))
		for i, tg := range t.Tags {
			tags[i] = string(tg)
		}
		tt.AddRow(t.ID, t.Emoji+" "+t.Label, fmt.Sprint(t.Weight), string(t.Polarity), strings.Join(tags, ","))
	}
	if len(tokens) == 0 {
		fmt.Fprintln(out, "No tokens match the filter.")
		return nil
	}
	fmt.Fprint(out, tt.View(styles))
	return nil
}
