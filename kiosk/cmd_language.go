package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var languageCmd = &cobra.Command{
	Use:   "language",
	Short: "Show or change the kiosk language",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		selected := svc.preferences.SelectedLanguage()
		for _, lang := range svc.preferences.Languages() {
			marker := " "
			if lang.Code == selected {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s  %-10s %s\n", marker, lang.Code, lang.Name, lang.NativeName)
		}
		return nil
	},
}

var languageSetCmd = &cobra.Command{
	Use:   "set <code>",
	Short: "Select the kiosk language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.preferences.SetLanguage(args[0]); err != nil {
			return userError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Language set to %s.\n", args[0])
		return nil
	},
}

func init() {
	languageCmd.AddCommand(languageSetCmd)
}
