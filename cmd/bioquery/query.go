package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/bioquery/internal/domain/equivalence"
	domprotein "github.com/kailas-cloud/bioquery/internal/domain/protein"
)

// withServices connects, runs fn and closes the store.
func (a *app) withServices(ctx context.Context, fn func(*services) error) error {
	svc, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(svc)
}

// searchFlags are the bounds shared by equivalence subcommands.
type searchFlags struct {
	maxDistance int
	maxDepth    int
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxDistance, "max-distance", 0, "widening levels to search (default from config)")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "depth limit below the common ancestor (0 = unbounded)")
}

func (f *searchFlags) options(a *app) equivalence.Options {
	d := f.maxDistance
	if d == 0 {
		d = a.cfg.Query.DefaultMaxDistance
	}
	opts := equivalence.NewOptions(d)
	if f.maxDepth != 0 {
		opts.MaxDepth = f.maxDepth
	}
	return opts
}

func newIndexCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage search indexes",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "ensure",
			Short: "Create the search indexes that do not exist",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withServices(cmd.Context(), func(svc *services) error {
					created, err := svc.schema.Ensure(cmd.Context())
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), map[string][]string{"created": nonNil(created)})
				})
			},
		},
		&cobra.Command{
			Use:   "missing",
			Short: "List the search indexes that do not exist",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withServices(cmd.Context(), func(svc *services) error {
					missing, err := svc.schema.Missing(cmd.Context())
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), map[string][]string{"missing": nonNil(missing)})
				})
			},
		},
	)
	return cmd
}

func newTaxonCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxon",
		Short: "Query the taxonomy",
	}

	var byID bool
	common := &cobra.Command{
		Use:   "common-ancestor <org1> <org2>",
		Short: "Print the closest common ancestor of two organisms",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(cmd.Context(), func(svc *services) error {
				ctx := cmd.Context()
				if !byID {
					k, err := svc.taxa.CommonAncestorByName(ctx, args[0], args[1])
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), k)
				}
				ids, err := parseIDs(args)
				if err != nil {
					return err
				}
				k, err := svc.taxa.CommonAncestorByID(ctx, ids[0], ids[1])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), k)
			})
		},
	}
	common.Flags().BoolVar(&byID, "by-id", false, "arguments are taxonomy ids instead of names")

	var sf searchFlags
	equivalents := &cobra.Command{
		Use:   "equivalents <tax_id>",
		Short: "Print the taxa related to a taxon, bucketed by taxonomic distance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return a.withServices(cmd.Context(), func(svc *services) error {
				res, err := svc.taxa.Equivalents(cmd.Context(), ids[0], sf.options(a))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), toResultOut(res, taxonMatch))
			})
		},
	}
	sf.register(equivalents)

	ranks := &cobra.Command{
		Use:   "ranks <tax_id>...",
		Short: "Print the rank of each taxon",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return a.withServices(cmd.Context(), func(svc *services) error {
				out, err := svc.taxa.Ranks(cmd.Context(), ids)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}

	cmd.AddCommand(common, equivalents, ranks)
	return cmd
}

func newProteinCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "protein",
		Short: "Query proteins and orthology groups",
	}

	var (
		sf        searchFlags
		namespace string
		anchor    bool
	)
	equivalents := &cobra.Command{
		Use:   "equivalents <uniprot_id>",
		Short: "Print the observed orthologs of a protein, bucketed by taxonomic distance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := domprotein.ParseNamespace(namespace)
			if err != nil {
				return err
			}
			return a.withServices(cmd.Context(), func(svc *services) error {
				run := svc.proteins.Equivalents
				if anchor {
					run = svc.proteins.EquivalentsWithAnchor
				}
				res, err := run(cmd.Context(), ns, args[0], sf.options(a))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), toResultOut(res, proteinMatch))
			})
		},
	}
	sf.register(equivalents)
	equivalents.Flags().StringVar(&namespace, "namespace", string(domprotein.NamespaceKEGG), "group namespace (kegg or orthodb)")
	equivalents.Flags().BoolVar(&anchor, "anchor", false, "include the protein itself at distance 0")

	var proximityDistance int
	proximity := &cobra.Command{
		Use:   "proximity <uniprot_id>",
		Short: "Print same-group proteins of the nearest ancestors of a protein's taxon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(cmd.Context(), func(svc *services) error {
				d := proximityDistance
				if d == 0 {
					d = a.cfg.Query.DefaultMaxDistance
				}
				out, err := svc.proteins.Proximity(cmd.Context(), args[0], d)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	proximity.Flags().IntVar(&proximityDistance, "max-distance", 0, "ancestors to inspect (default from config)")

	cmd.AddCommand(equivalents, proximity)
	return cmd
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, len(args))
	for i, s := range args {
		id, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid taxonomy id %q", s)
		}
		ids[i] = id
	}
	return ids, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
