package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"relmap/internal/diagram"
	"relmap/internal/gateway"
	"relmap/internal/models"
)

func newShowCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Load the diagram, fit it to the viewport and print nodes and edges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := envFrom(cmd)
			c, err := e.loadController(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()
			c.FitView()

			snap := c.Snapshot()
			if output == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			renderSnapshot(cmd.OutOrStdout(), snap)
			renderNotifications(cmd.ErrOrStderr(), c.Notifications())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format (table|json)")
	return cmd
}

func newConnectCommand() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "connect SOURCE.COLUMN TARGET.COLUMN",
		Short: "Create a relationship between two columns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := diagram.ParseAnchor(args[0])
			if err != nil {
				return err
			}
			target, err := diagram.ParseAnchor(args[1])
			if err != nil {
				return err
			}

			e := envFrom(cmd)
			c, err := e.loadController(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			var edge diagram.Edge
			if kind == "" {
				edge, err = c.Connect(cmd.Context(), source, target)
			} else {
				edge, err = c.ConnectKind(cmd.Context(), source, target, models.RelationshipKind(kind))
			}
			if gateway.IsConflict(err) {
				return fmt.Errorf("%s -> %s is already connected: %w", source, target, err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created relationship %d: %s -> %s (%s)\n", edge.ID, edge.Source, edge.Target, edge.Kind)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "relationship kind (1-1, 1-N, N-N); defaults to the editor config")
	return cmd
}

func newDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a relationship after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid relationship id %q", args[0])
			}

			e := envFrom(cmd)
			c, err := e.loadController(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			confirm := diagram.AlwaysConfirm
			if !yes {
				confirm = promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			deleted, err := c.DeleteEdge(cmd.Context(), id, confirm)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted relationship %d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// promptConfirm asks on out and accepts "y" or "yes" from in.
func promptConfirm(in io.Reader, out io.Writer) diagram.ConfirmFunc {
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

func newSuggestCommand() *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "List relationships inferred from foreign keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := envFrom(cmd)
			suggestions, err := e.client.Suggestions(cmd.Context(), e.session)
			if err != nil {
				return err
			}
			renderRelationships(cmd.OutOrStdout(), suggestions)
			if !apply || len(suggestions) == 0 {
				return nil
			}

			c, err := e.loadController(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()
			for _, s := range suggestions {
				source := diagram.Anchor{Table: s.SourceTable, Column: s.SourceColumn}
				target := diagram.Anchor{Table: s.TargetTable, Column: s.TargetColumn}
				edge, err := c.ConnectKind(cmd.Context(), source, target, s.Kind)
				if err != nil {
					return fmt.Errorf("failed to apply %s: %w", s, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created relationship %d: %s -> %s (%s)\n", edge.ID, edge.Source, edge.Target, edge.Kind)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "create every suggested relationship")
	return cmd
}

func newMermaidCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mermaid",
		Short: "Print the diagram as a Mermaid erDiagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := envFrom(cmd)
			out, err := e.client.Mermaid(cmd.Context(), e.session)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			if !strings.HasSuffix(out, "\n") {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
}
