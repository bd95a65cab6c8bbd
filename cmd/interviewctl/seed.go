package main

import (
	"fmt"

	"mockprep/interview/internal/catalog"
	"mockprep/interview/internal/store"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newSeedRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-roles",
		Short: "Insert the built-in role profiles that are not present yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			cat, err := catalog.Load()
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			profiles := cat.RoleProfiles(uuid.NewString)

			inserted, err := store.NewProfileRepository(e.db).SeedRoles(cmd.Context(), profiles)
			if err != nil {
				return fmt.Errorf("seed roles: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d role profiles (%d already present)\n", inserted, len(profiles)-inserted)
			return nil
		},
	}
}
