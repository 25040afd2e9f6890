package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/architect-io/lokiq/pkg/loki"
)

func newLabelsCmd() *cobra.Command {
	var (
		start string
		end   string
		since string
	)

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "List label names",
		Long: `List the label names known to Loki in the given time window.

Examples:
  lokiq labels
  lokiq labels --since 24h
  lokiq labels values app
  lokiq labels values app --query '{environment="prod"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			client, err := newClient()
			if err != nil {
				return err
			}

			names, err := client.Labels(ctx, loki.LabelOptions{
				Start: parseTimeFlag(start),
				End:   parseTimeFlag(end),
				Since: since,
			})
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&start, "start", "", "Window start: duration before now or nanosecond timestamp")
	cmd.PersistentFlags().StringVar(&end, "end", "", "Window end: duration before now or nanosecond timestamp")
	cmd.PersistentFlags().StringVar(&since, "since", "", "Shorthand window, e.g. 24h")

	cmd.AddCommand(newLabelValuesCmd(&start, &end, &since))

	return cmd
}

func newLabelValuesCmd(start, end, since *string) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "values <name>",
		Short: "List the values of a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			client, err := newClient()
			if err != nil {
				return err
			}

			values, err := client.LabelValues(ctx, args[0], loki.LabelValueOptions{
				LabelOptions: loki.LabelOptions{
					Start: parseTimeFlag(*start),
					End:   parseTimeFlag(*end),
					Since: *since,
				},
				Query: query,
			})
			if err != nil {
				return err
			}
			for _, value := range values {
				fmt.Println(value)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Restrict to streams matching this selector")

	return cmd
}
