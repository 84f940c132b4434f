// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/tunreplay/internal/core/address"
	"github.com/taibuivan/tunreplay/internal/platform/ratelimit"
	"github.com/taibuivan/tunreplay/pkg/slug"
)

func newSlugCmd(opts *options) *cobra.Command {
	var parentID int64

	cmd := &cobra.Command{
		Use:   "slug",
		Short: "Normalize, allocate and resolve slugs",
		Long: `Slug commands work on one collection at a time.

Valid collections: ` + collectionNames() + `

Episode slugs are unique per series, so episode commands need --parent-id.`,
	}
	cmd.PersistentFlags().Int64Var(&parentID, "parent-id", 0, "series id for the episodes collection")

	cmd.AddCommand(&cobra.Command{
		Use:   "normalize <label>",
		Short: "Print the slug form of a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), slug.Normalize(args[0]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "allocate <collection> <label>",
		Short: "Print the first free slug for a label",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSlugService(cmd.Context(), opts, args[0], parentID, func(service *address.Service, scope address.Scope) error {
				allocated, err := service.AllocateUniqueSlug(cmd.Context(), scope, args[1], nil)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), allocated)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "resolve <collection> <slug>",
		Short: "Print the id a slug addresses",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSlugService(cmd.Context(), opts, args[0], parentID, func(service *address.Service, scope address.Scope) error {
				id, err := service.ResolveSlug(cmd.Context(), scope, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "debug <collection> <slug>",
		Short: "Show how each resolution tier sees a slug",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSlugService(cmd.Context(), opts, args[0], parentID, func(service *address.Service, scope address.Scope) error {
				diagnosis, err := service.Diagnose(cmd.Context(), scope, args[1])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), diagnosis)
			})
		},
	})

	return cmd
}

// parseScope validates the collection argument before anything connects.
func parseScope(name string, parentID int64) (address.Scope, error) {
	collection, err := address.ParseCollection(name)
	if err != nil {
		return address.Scope{}, fmt.Errorf("unknown collection %q (valid: %s)", name, collectionNames())
	}
	if collection == address.CollectionEpisodes {
		if parentID <= 0 {
			return address.Scope{}, fmt.Errorf("the episodes collection needs --parent-id")
		}
		return address.EpisodesOf(parentID), nil
	}
	return address.In(collection), nil
}

// withSlugService runs fn against a slug service backed by a fresh pool. The
// store tier is not throttled from the CLI.
func withSlugService(ctx context.Context, opts *options, collection string, parentID int64, fn func(*address.Service, address.Scope) error) error {
	scope, err := parseScope(collection, parentID)
	if err != nil {
		return err
	}

	cfg, pool, err := opts.connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	service := address.NewService(address.NewPostgresStore(pool), ratelimit.Unlimited, nil, cfg.SlugMaxProbes, opts.logger())
	return fn(service, scope)
}

func collectionNames() string {
	names := make([]string, 0, len(address.Collections))
	for _, collection := range address.Collections {
		names = append(names, string(collection))
	}
	return strings.Join(names, ", ")
}

func printJSON(out io.Writer, value any) error {
	output, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(out, string(output))
	return nil
}
