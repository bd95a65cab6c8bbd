// Package cache keeps short-lived copies of rarely changing reads.
package cache

import (
	"context"
	"time"

	"mockprep/interview/internal/models"
	"mockprep/interview/internal/store"
)

const (
	DefaultRoleTTL = 5 * time.Minute
	allRolesKey    = "*"
)

// CachedProfiles serves role profile reads from memory. Resume and candidate
// reads go straight to the repository.
type CachedProfiles struct {
	*store.ProfileRepository
	roles *TTLCache[string, models.RoleProfile]
	lists *TTLCache[string, []models.RoleProfile]
}

func NewCachedProfiles(repo *store.ProfileRepository, ttl time.Duration) *CachedProfiles {
	if ttl <= 0 {
		ttl = DefaultRoleTTL
	}
	return &CachedProfiles{
		ProfileRepository: repo,
		roles:             NewTTLCache[string, models.RoleProfile](ttl, ttl),
		lists:             NewTTLCache[string, []models.RoleProfile](ttl, ttl),
	}
}

func (c *CachedProfiles) GetRoleProfile(ctx context.Context, id string) (*models.RoleProfile, error) {
	if role, ok := c.roles.Get(id); ok {
		return &role, nil
	}
	role, err := c.ProfileRepository.GetRoleProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	c.roles.Set(id, *role)
	return role, nil
}

func (c *CachedProfiles) ListRoles(ctx context.Context) ([]models.RoleProfile, error) {
	if roles, ok := c.lists.Get(allRolesKey); ok {
		return append([]models.RoleProfile(nil), roles...), nil
	}
	roles, err := c.ProfileRepository.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	c.lists.Set(allRolesKey, roles)
	return append([]models.RoleProfile(nil), roles...), nil
}

func (c *CachedProfiles) CreateRole(ctx context.Context, role *models.RoleProfile) error {
	if err := c.ProfileRepository.CreateRole(ctx, role); err != nil {
		return err
	}
	c.lists.Delete(allRolesKey)
	return nil
}

func (c *CachedProfiles) SeedRoles(ctx context.Context, roles []models.RoleProfile) (int, error) {
	added, err := c.ProfileRepository.SeedRoles(ctx, roles)
	if added > 0 {
		c.lists.Delete(allRolesKey)
	}
	return added, err
}

// Close stops the cache sweepers.
func (c *CachedProfiles) Close() {
	c.roles.Close()
	c.lists.Close()
}
