package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routestate/pkg/endpoint"
	"github.com/vango-dev/routestate/pkg/paramstate"
	"github.com/vango-dev/routestate/pkg/router"
)

func compileCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "List the endpoint templates of a route configuration",
		Long: `Compile a route configuration and print every endpoint template it
accepts, in configuration order. Param segments print as :name.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.source(args, 0)
			if err != nil {
				return err
			}
			root, err := a.loadRoutes(cmd.Context(), src)
			if err != nil {
				return err
			}
			set, err := endpoint.Compile(root)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, map[string]any{"endpoints": set.Templates()})
			}
			for _, t := range set.Templates() {
				fmt.Fprintln(out, t)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func stateCmd(a *app) *cobra.Command {
	var slots bool

	cmd := &cobra.Command{
		Use:   "state [file]",
		Short: "Print the param state shape of a route configuration",
		Long: `Build the param state of a route configuration and print it as JSON.
Every slot is unset, so its value is null.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.source(args, 0)
			if err != nil {
				return err
			}
			root, err := a.loadRoutes(cmd.Context(), src)
			if err != nil {
				return err
			}
			tree, err := paramstate.Build(root)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !slots {
				return writeJSON(out, tree.Snapshot())
			}
			tree.Walk(func(keys []string, st *paramstate.State) {
				for _, s := range st.Slots() {
					def := s.Def()
					info(out, "%s %s (%s, required=%t)", keyPath(keys), s.Name(), def.Type, def.Required)
				}
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&slots, "slots", false, "List slots with their definitions instead")

	return cmd
}

func matchCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "match [file] <path>",
		Short: "Resolve a path against a route configuration",
		Long: `Resolve a path against a route configuration and print the matched
template, the raw param values and the typed state navigation would produce.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[len(args)-1]
			src, err := a.source(args[:len(args)-1], 0)
			if err != nil {
				return err
			}
			root, err := a.loadRoutes(cmd.Context(), src)
			if err != nil {
				return err
			}
			rt, err := router.New(root, router.WithLogger(a.logger))
			if err != nil {
				return err
			}
			loc, state, err := rt.Resolve(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, map[string]any{
					"template": loc.Template,
					"path":     loc.Path,
					"params":   loc.Params,
					"state":    state,
				})
			}
			success(out, "%s", loc.Template)
			info(out, "path: %s", loc.Path)
			for _, name := range slices.Sorted(maps.Keys(loc.Params)) {
				info(out, "%s = %s", name, loc.Params[name])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func keyPath(keys []string) string {
	p := "/"
	for i, k := range keys {
		if i > 0 {
			p += "/"
		}
		p += k
	}
	return p
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
