package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "List the brands the impersonation matcher knows about",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadBrandTable()
		if err != nil {
			return err
		}

		fmt.Printf("%d brands loaded\n\n", table.Len())
		for _, b := range table.Brands() {
			fmt.Printf("%s\n", colorInfo(b.Name))
			fmt.Printf("  domains:  %s\n", strings.Join(b.Domains, ", "))
			fmt.Printf("  keywords: %s\n", strings.Join(b.Keywords, ", "))
			fmt.Printf("  official: %s\n", b.URL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(brandsCmd)
}
