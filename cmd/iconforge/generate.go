package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jo-hoe/iconforge/internal/core"
)

func newGenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Render the placeholder icon and its transparent foreground variant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := core.NewIconService(a.config)
			defer func() {
				_ = svc.Close()
			}()

			result, err := svc.GenerateIcons(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.FallbackFont {
				fmt.Fprintln(out, "⚠️  Using default font (no system font found)")
			}
			fmt.Fprintf(out, "✅ Icon created: %s\n", result.IconPath)
			fmt.Fprintf(out, "✅ Foreground icon created: %s\n", result.ForegroundPath)
			fmt.Fprintln(out, "\n✅ Icons generated successfully!")
			fmt.Fprintln(out, "Now run: flutter pub run flutter_launcher_icons")
			return nil
		},
	}
}
