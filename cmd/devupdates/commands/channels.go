// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bartekus/devupdates/cmd/devupdates/internal/clierr"
)

// targetChannels is --channel when given, otherwise every configured channel.
func (a *app) targetChannels() []string {
	if a.opts.channel != "" {
		return []string{a.opts.channel}
	}
	return a.cfg.Channels.Names()
}

func newDeleteLastCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-last [count]",
		Short: "Delete the last bot messages (default 1) from --channel or every channel",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return clierr.Newf(clierr.ExitUsage, "invalid count %q: want a positive number", args[0])
				}
				count = n
			}
			return classify(a.deleteLast(cmd.Context(), cmd.OutOrStdout(), count))
		},
	}
}

func (a *app) deleteLast(ctx context.Context, w io.Writer, count int) error {
	names := a.targetChannels()
	client, ids, err := a.ensureChannels(ctx, names...)
	if err != nil {
		return err
	}

	if a.opts.channel != "" {
		fmt.Fprintf(w, "Deleting last %d bot messages from #%s...\n", count, a.opts.channel)
		deleted, err := client.DeleteBotMessages(ctx, ids[a.opts.channel], count)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Deleted %d messages\n", deleted)
		return nil
	}

	for _, name := range names {
		fmt.Fprintf(w, "#%s:\n", name)
		deleted, err := client.DeleteBotMessages(ctx, ids[name], count)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  Deleted %d messages\n", deleted)
	}
	return nil
}

func (a *app) clearAll(ctx context.Context, w io.Writer) error {
	names := a.targetChannels()
	client, ids, err := a.ensureChannels(ctx, names...)
	if err != nil {
		return err
	}
	for _, name := range names {
		res, err := client.DeleteAllBotMessages(ctx, ids[name])
		if err != nil {
			return fmt.Errorf("clearing #%s: %w", name, err)
		}
		line := fmt.Sprintf("#%s: deleted %d messages", name, res.Deleted)
		if res.Skipped > 0 {
			line += fmt.Sprintf(" (%d skipped)", res.Skipped)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, "\nAll channels cleared.")
	return nil
}

func (a *app) setupChannels(ctx context.Context, w io.Writer) error {
	names := a.cfg.Channels.Names()
	hashed := make([]string, len(names))
	for i, n := range names {
		hashed[i] = "#" + n
	}
	fmt.Fprintf(w, "Ensuring channels exist: %s\n", strings.Join(hashed, ", "))

	_, ids, err := a.ensureChannels(ctx, names...)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\nChannels ready:")
	for _, n := range names {
		fmt.Fprintf(w, "  #%s -> %s\n", n, ids[n])
	}
	return nil
}
