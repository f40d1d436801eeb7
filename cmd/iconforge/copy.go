package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jo-hoe/iconforge/internal/core"
)

func newCopyCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Resize the icon into the Android and iOS asset directories",
		Long: `Resize assets/icon/app_icon.png into every launcher icon size of the
configured groups and write them into the platform directories.

Files whose inputs did not change since the last run are left untouched
unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := core.NewIconService(a.config)
			defer func() {
				_ = svc.Close()
			}()

			report, err := svc.ExportIcons(cmd.Context(), core.ExportOptions{Force: force})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, res := range report.Results {
				fmt.Fprintf(out, "✅ %s\n", res)
			}
			for _, group := range report.SkippedGroups {
				fmt.Fprintf(out, "⚠️  Skipped %s: source not found\n", group)
			}
			if report.PrunedCacheEntries > 0 {
				fmt.Fprintf(out, "🧹 Pruned %d stale cache entries\n", report.PrunedCacheEntries)
			}
			fmt.Fprintln(out, "\n✅ All icons copied successfully!")
			fmt.Fprintln(out, "Clean and rebuild the project:")
			fmt.Fprintln(out, "  flutter clean")
			fmt.Fprintln(out, "  flutter pub get")
			fmt.Fprintln(out, "  flutter run")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Rewrite every file even if unchanged")
	return cmd
}
