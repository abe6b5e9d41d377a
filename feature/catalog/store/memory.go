package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"catalog-manager/feature/catalog/models"
)

// Memory is an in-memory Store implementation. It enforces the same
// uniqueness constraints as the MySQL schema so service tests exercise the
// constraint-violation paths deterministically.
type Memory struct {
	mu sync.Mutex

	parts     map[uint]models.Part
	apps      map[uint]models.VehicleApplication
	refs      map[uint]models.CrossReference
	aliases   map[uint]models.Alias
	snapshots map[string]models.ImportSnapshot

	nextAppID   uint
	nextRefID   uint
	nextAliasID uint
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		parts:       make(map[uint]models.Part),
		apps:        make(map[uint]models.VehicleApplication),
		refs:        make(map[uint]models.CrossReference),
		aliases:     make(map[uint]models.Alias),
		snapshots:   make(map[string]models.ImportSnapshot),
		nextAppID:   1,
		nextRefID:   1,
		nextAliasID: 1,
	}
}

// Seed loads an initial state, preserving the given surrogate ids.
func (m *Memory) Seed(state *models.StoreState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range state.Parts {
		m.parts[p.ID] = p
	}
	for _, a := range state.VehicleApplications {
		m.apps[a.ID] = a
		if a.ID >= m.nextAppID {
			m.nextAppID = a.ID + 1
		}
	}
	for _, x := range state.CrossReferences {
		m.refs[x.ID] = x
		if x.ID >= m.nextRefID {
			m.nextRefID = x.ID + 1
		}
	}
	for _, al := range state.Aliases {
		m.aliases[al.ID] = al
		if al.ID >= m.nextAliasID {
			m.nextAliasID = al.ID + 1
		}
	}
}

// LoadState returns a deep copy of the current contents, ordered by id.
func (m *Memory) LoadState(ctx context.Context) (*models.StoreState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked(), nil
}

func (m *Memory) stateLocked() *models.StoreState {
	state := &models.StoreState{}
	for _, p := range m.parts {
		state.Parts = append(state.Parts, p)
	}
	for _, a := range m.apps {
		state.VehicleApplications = append(state.VehicleApplications, a)
	}
	for _, x := range m.refs {
		state.CrossReferences = append(state.CrossReferences, x)
	}
	for _, al := range m.aliases {
		state.Aliases = append(state.Aliases, al)
	}

	sort.Slice(state.Parts, func(i, j int) bool { return state.Parts[i].ID < state.Parts[j].ID })
	sort.Slice(state.VehicleApplications, func(i, j int) bool {
		return state.VehicleApplications[i].ID < state.VehicleApplications[j].ID
	})
	sort.Slice(state.CrossReferences, func(i, j int) bool {
		return state.CrossReferences[i].ID < state.CrossReferences[j].ID
	})
	sort.Slice(state.Aliases, func(i, j int) bool { return state.Aliases[i].ID < state.Aliases[j].ID })

	return state
}

// Apply executes the batch atomically: constraints are checked up front and
// nothing is written if any would be violated.
func (m *Memory) Apply(ctx context.Context, batch *Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Uniqueness pre-flight for part business keys, mirroring the MySQL
	// unique index.
	skus := make(map[string]uint, len(m.parts))
	for id, p := range m.parts {
		skus[p.ACRSku] = id
	}
	deleted := make(map[uint]struct{}, len(batch.PartDeletes))
	for _, id := range batch.PartDeletes {
		deleted[id] = struct{}{}
	}
	for _, p := range batch.PartAdds {
		if owner, exists := skus[p.ACRSku]; exists {
			if _, gone := deleted[owner]; !gone {
				return fmt.Errorf("%w: %q", ErrDuplicateKey, p.ACRSku)
			}
		}
		if _, taken := m.parts[p.ID]; taken {
			return fmt.Errorf("%w: part id %d", ErrDuplicateKey, p.ID)
		}
	}

	for _, p := range batch.PartAdds {
		m.parts[p.ID] = p
	}
	for _, p := range batch.PartUpdates {
		m.parts[p.ID] = p
	}
	for _, id := range batch.PartDeletes {
		delete(m.parts, id)
		for appID, a := range m.apps {
			if a.PartID == id {
				delete(m.apps, appID)
			}
		}
		for refID, x := range m.refs {
			if x.PartID == id {
				delete(m.refs, refID)
			}
		}
	}

	for _, a := range batch.ApplicationAdds {
		if a.ID == 0 {
			a.ID = m.nextAppID
			m.nextAppID++
		}
		m.apps[a.ID] = a
	}
	for _, a := range batch.ApplicationUpdates {
		m.apps[a.ID] = a
	}
	for _, id := range batch.ApplicationDeletes {
		delete(m.apps, id)
	}

	for _, x := range batch.CrossReferenceAdds {
		if x.ID == 0 {
			x.ID = m.nextRefID
			m.nextRefID++
		}
		m.refs[x.ID] = x
	}
	for _, id := range batch.CrossReferenceDeletes {
		delete(m.refs, id)
	}

	for _, al := range batch.AliasAdds {
		if al.ID == 0 {
			al.ID = m.nextAliasID
			m.nextAliasID++
		}
		m.aliases[al.ID] = al
	}
	for _, al := range batch.AliasUpdates {
		m.aliases[al.ID] = al
	}
	for _, id := range batch.AliasDeletes {
		delete(m.aliases, id)
	}

	return nil
}

// Restore replaces all entity tables with the pre-image.
func (m *Memory) Restore(ctx context.Context, pre *models.StoreState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.parts = make(map[uint]models.Part, len(pre.Parts))
	m.apps = make(map[uint]models.VehicleApplication, len(pre.VehicleApplications))
	m.refs = make(map[uint]models.CrossReference, len(pre.CrossReferences))
	m.aliases = make(map[uint]models.Alias, len(pre.Aliases))

	for _, p := range pre.Parts {
		m.parts[p.ID] = p
	}
	for _, a := range pre.VehicleApplications {
		m.apps[a.ID] = a
	}
	for _, x := range pre.CrossReferences {
		m.refs[x.ID] = x
	}
	for _, al := range pre.Aliases {
		m.aliases[al.ID] = al
	}

	return nil
}

// SaveSnapshot persists a snapshot record.
func (m *Memory) SaveSnapshot(ctx context.Context, snap *models.ImportSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}
	m.snapshots[snap.ID] = *snap
	return nil
}

// GetSnapshot fetches a snapshot by id.
func (m *Memory) GetSnapshot(ctx context.Context, id string) (*models.ImportSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, ok := m.snapshots[id]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return &snap, nil
}

// ListSnapshots returns all snapshot records, newest first.
func (m *Memory) ListSnapshots(ctx context.Context) ([]models.ImportSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snaps := make([]models.ImportSnapshot, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		s.PreImage = ""
		snaps = append(snaps, s)
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].CreatedAt.After(snaps[j].CreatedAt) })
	return snaps, nil
}

// DeleteSnapshot removes a snapshot record.
func (m *Memory) DeleteSnapshot(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.snapshots[id]; !ok {
		return ErrSnapshotNotFound
	}
	delete(m.snapshots, id)
	return nil
}
