package service

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"

	groupdomain "workspace-control-plane/internal/group/domain"
	membershipdomain "workspace-control-plane/internal/membership/domain"
	"workspace-control-plane/internal/platform/errs"
	spacedomain "workspace-control-plane/internal/space/domain"
	telemetrydomain "workspace-control-plane/internal/telemetry/domain"
	userdomain "workspace-control-plane/internal/user/domain"
	"workspace-control-plane/internal/workspace/domain"
)

// memStore is an in-memory store shared by the fake repositories. Writes made inside RunInTx are undone
// in reverse order when fn fails, so a failed transaction leaves no trace. Hostname uniqueness is
// enforced at insert like the real unique constraint.
type memStore struct {
	mu           sync.Mutex
	workspaces   map[string]*domain.Workspace
	hostnames    map[string]string
	users        map[string]*userdomain.User
	groups       map[string]*groupdomain.Group
	groupMembers []groupdomain.Membership
	spaces       map[string]*spacedomain.Space
	spaceMembers []spacedomain.Member

	// failOn makes the named step return errFailed.
	failOn string
	// hideHostnames makes ExistsByHostname report these hostnames as free, once each.
	hideHostnames map[string]int

	txCount   int
	rollbacks int
}

var errFailed = errors.New("injected failure")

type memTxKey struct{}

type memTx struct {
	undo []func()
}

func newMemStore() *memStore {
	return &memStore{
		workspaces:    map[string]*domain.Workspace{},
		hostnames:     map[string]string{},
		users:         map[string]*userdomain.User{},
		groups:        map[string]*groupdomain.Group{},
		spaces:        map[string]*spacedomain.Space{},
		hideHostnames: map[string]int{},
	}
}

func (s *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(memTxKey{}).(*memTx); ok {
		return fn(ctx)
	}
	tx := &memTx{}
	s.mu.Lock()
	s.txCount++
	s.mu.Unlock()
	if err := fn(context.WithValue(ctx, memTxKey{}, tx)); err != nil {
		s.mu.Lock()
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		s.rollbacks++
		s.mu.Unlock()
		return err
	}
	return nil
}

// record registers undo for the current transaction. Callers hold s.mu.
func (s *memStore) record(ctx context.Context, undo func()) {
	if tx, ok := ctx.Value(memTxKey{}).(*memTx); ok {
		tx.undo = append(tx.undo, undo)
	}
}

func (s *memStore) fail(step string) error {
	if s.failOn == step {
		return errFailed
	}
	return nil
}

func (s *memStore) addUser(id string, workspaceID string, role membershipdomain.Role) *userdomain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &userdomain.User{ID: id, Email: id + "@example.com", WorkspaceID: workspaceID, Role: role, Status: userdomain.UserStatusActive}
	s.users[id] = u
	return u
}

func (s *memStore) takeHostname(h string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := "existing-" + h
	s.workspaces[id] = &domain.Workspace{ID: id, Name: h, Hostname: &h}
	s.hostnames[h] = id
}

func (s *memStore) user(id string) userdomain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.users[id]
}

func (s *memStore) repos() Repositories {
	return Repositories{
		Workspaces:   workspaceRepo{s},
		Groups:       groupRepo{s},
		GroupMembers: groupMemberRepo{s},
		Spaces:       spaceRepo{s},
		SpaceMembers: spaceMemberRepo{s},
		Users:        userRepo{s},
	}
}

type workspaceRepo struct{ s *memStore }

func (r workspaceRepo) Insert(ctx context.Context, w *domain.Workspace) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("workspace.insert"); err != nil {
		return err
	}
	if h := w.HostnameValue(); h != "" {
		if _, taken := s.hostnames[h]; taken {
			return errs.Conflict("hostname %q is already taken", h)
		}
		s.hostnames[h] = w.ID
		s.record(ctx, func() { delete(s.hostnames, h) })
	}
	cp := *w
	s.workspaces[w.ID] = &cp
	s.record(ctx, func() { delete(s.workspaces, w.ID) })
	return nil
}

func (r workspaceRepo) UpdateByID(ctx context.Context, w *domain.Workspace) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("workspace.update"); err != nil {
		return err
	}
	prev, ok := s.workspaces[w.ID]
	if !ok {
		return errs.NotFound("workspace %q", w.ID)
	}
	cp := *w
	s.workspaces[w.ID] = &cp
	s.record(ctx, func() { s.workspaces[w.ID] = prev })
	return nil
}

func (r workspaceRepo) FindByID(ctx context.Context, id string) (*domain.Workspace, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workspaces[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r workspaceRepo) ExistsByHostname(ctx context.Context, hostname string) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hideHostnames[hostname] > 0 {
		s.hideHostnames[hostname]--
		return false, nil
	}
	_, ok := s.hostnames[hostname]
	return ok, nil
}

type groupRepo struct{ s *memStore }

func (r groupRepo) CreateDefault(ctx context.Context, workspaceID, seedUserID string) (*groupdomain.Group, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("group.create"); err != nil {
		return nil, err
	}
	g := &groupdomain.Group{ID: uuid.New().String(), WorkspaceID: workspaceID, Name: groupdomain.DefaultGroupName, IsDefault: true, CreatorID: seedUserID}
	s.groups[g.ID] = g
	s.record(ctx, func() { delete(s.groups, g.ID) })
	cp := *g
	return &cp, nil
}

type groupMemberRepo struct{ s *memStore }

func (r groupMemberRepo) Insert(ctx context.Context, m *groupdomain.Membership) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("group_member.insert"); err != nil {
		return err
	}
	link := *m
	s.groupMembers = append(s.groupMembers, link)
	s.record(ctx, func() {
		s.groupMembers = slices.DeleteFunc(s.groupMembers, func(x groupdomain.Membership) bool {
			return x.GroupID == link.GroupID && x.UserID == link.UserID
		})
	})
	return nil
}

type spaceRepo struct{ s *memStore }

func (r spaceRepo) Create(ctx context.Context, sp *spacedomain.Space) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("space.create"); err != nil {
		return err
	}
	if sp.ID == "" {
		sp.ID = uuid.New().String()
	}
	cp := *sp
	s.spaces[sp.ID] = &cp
	s.record(ctx, func() { delete(s.spaces, sp.ID) })
	return nil
}

func (r spaceRepo) FindByID(ctx context.Context, id string) (*spacedomain.Space, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.spaces[id]
	if !ok {
		return nil, nil
	}
	cp := *sp
	return &cp, nil
}

type spaceMemberRepo struct{ s *memStore }

func (r spaceMemberRepo) AddUser(ctx context.Context, spaceID, userID string, role spacedomain.Role, addedBy string) (*spacedomain.Member, error) {
	return r.add(ctx, "space_member.user", spacedomain.Member{SpaceID: spaceID, UserID: userID, Role: role, AddedBy: addedBy})
}

func (r spaceMemberRepo) AddGroup(ctx context.Context, spaceID, groupID string, role spacedomain.Role, addedBy string) (*spacedomain.Member, error) {
	return r.add(ctx, "space_member.group", spacedomain.Member{SpaceID: spaceID, GroupID: groupID, Role: role, AddedBy: addedBy})
}

func (r spaceMemberRepo) add(ctx context.Context, step string, m spacedomain.Member) (*spacedomain.Member, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(step); err != nil {
		return nil, err
	}
	m.ID = uuid.New().String()
	s.spaceMembers = append(s.spaceMembers, m)
	s.record(ctx, func() {
		s.spaceMembers = slices.DeleteFunc(s.spaceMembers, func(x spacedomain.Member) bool { return x.ID == m.ID })
	})
	return &m, nil
}

type userRepo struct{ s *memStore }

func (r userRepo) FindByID(ctx context.Context, id string) (*userdomain.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r userRepo) UpdateByID(ctx context.Context, u *userdomain.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("user.update"); err != nil {
		return err
	}
	prev, ok := s.users[u.ID]
	if !ok {
		return errs.NotFound("user %q", u.ID)
	}
	cp := *u
	s.users[u.ID] = &cp
	s.record(ctx, func() { s.users[u.ID] = prev })
	return nil
}

func (r userRepo) CountByRoleInWorkspace(ctx context.Context, workspaceID string, role membershipdomain.Role) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range s.users {
		if u.WorkspaceID == workspaceID && u.Role == role {
			n++
		}
	}
	return n, nil
}

// seqSource yields the given numbers in order, cycling.
type seqSource struct {
	mu   sync.Mutex
	nums []int
	i    int
}

func (s *seqSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.nums[s.i%len(s.nums)]
	s.i++
	return v % n
}

// recordingEmitter captures emitted events.
type recordingEmitter struct {
	ch chan *telemetrydomain.Event
}

func newRecordingEmitter() *recordingEmitter {
	return &recordingEmitter{ch: make(chan *telemetrydomain.Event, 16)}
}

func (e *recordingEmitter) Emit(ctx context.Context, event *telemetrydomain.Event) error {
	e.ch <- event
	return nil
}
