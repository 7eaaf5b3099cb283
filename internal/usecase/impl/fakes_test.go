package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"robofleet/internal/domain/entity"
	"robofleet/internal/domain/repository"
	"robofleet/internal/domain/service"
	"robofleet/internal/usecase"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryStore is a shared in-memory backing store for all fake repositories,
// so cross-repository behavior (preloaded grants, cascades) stays consistent
// within a test.
type memoryStore struct {
	users    map[uuid.UUID]*entity.User
	groups   map[uuid.UUID]*entity.Group
	robots   map[uuid.UUID]*entity.Robot
	grants   map[string]*entity.RobotPermission
	settings map[string]*entity.RobotSetting
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    make(map[uuid.UUID]*entity.User),
		groups:   make(map[uuid.UUID]*entity.Group),
		robots:   make(map[uuid.UUID]*entity.Robot),
		grants:   make(map[string]*entity.RobotPermission),
		settings: make(map[string]*entity.RobotSetting),
	}
}

func newID() uuid.UUID { return uuid.New() }

func pairKey(userID, robotID uuid.UUID) string {
	return fmt.Sprintf("%s|%s", userID, robotID)
}

// robotView returns a copy of the robot with its grants attached, matching
// the preload behavior of the real repository.
func (s *memoryStore) robotView(robot *entity.Robot) *entity.Robot {
	view := *robot
	view.Permissions = nil
	for _, grant := range s.grants {
		if grant.RobotID == robot.ID {
			attached := *grant
			attached.User = s.users[grant.UserID].Public()
			view.Permissions = append(view.Permissions, attached)
		}
	}

	return &view
}

// groupView returns a copy of the group with member identities attached.
func (s *memoryStore) groupView(group *entity.Group) *entity.Group {
	view := *group
	view.Members = make([]entity.GroupMember, len(group.Members))
	for i, member := range group.Members {
		member.User = s.users[member.UserID].Public()
		view.Members[i] = member
	}

	return &view
}

// deleteRobot removes a robot together with its grants and settings.
func (s *memoryStore) deleteRobot(robotID uuid.UUID) {
	delete(s.robots, robotID)
	for key, grant := range s.grants {
		if grant.RobotID == robotID {
			delete(s.grants, key)
		}
	}
	for key, setting := range s.settings {
		if setting.RobotID == robotID {
			delete(s.settings, key)
		}
	}
}

// --- fake repositories ---

type fakeUserRepo struct{ store *memoryStore }

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	r.store.users[user.ID] = user

	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.store.users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

type fakeGroupRepo struct{ store *memoryStore }

func (r *fakeGroupRepo) Create(_ context.Context, group *entity.Group) error {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	group.CreatedAt = time.Now()
	for i := range group.Members {
		group.Members[i].GroupID = group.ID
		group.Members[i].CreatedAt = time.Now()
	}
	stored := *group
	r.store.groups[group.ID] = &stored

	return nil
}

func (r *fakeGroupRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Group, error) {
	group, ok := r.store.groups[id]
	if !ok {
		return nil, repository.ErrGroupNotFound
	}

	return r.store.groupView(group), nil
}

func (r *fakeGroupRepo) FindByMember(_ context.Context, userID uuid.UUID) ([]*entity.Group, error) {
	var groups []*entity.Group
	for _, group := range r.store.groups {
		for _, member := range group.Members {
			if member.UserID == userID {
				groups = append(groups, r.store.groupView(group))

				break
			}
		}
	}

	return groups, nil
}

func (r *fakeGroupRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.groups[id]; !ok {
		return repository.ErrGroupNotFound
	}
	delete(r.store.groups, id)

	return nil
}

func (r *fakeGroupRepo) FindMembership(_ context.Context, userID, groupID uuid.UUID) (*entity.GroupMember, error) {
	group, ok := r.store.groups[groupID]
	if !ok {
		return nil, repository.ErrMembershipNotFound
	}
	for _, member := range group.Members {
		if member.UserID == userID {
			member.User = r.store.users[userID].Public()

			return &member, nil
		}
	}

	return nil, repository.ErrMembershipNotFound
}

func (r *fakeGroupRepo) FindAdminGroupIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, group := range r.store.groups {
		for _, member := range group.Members {
			if member.UserID == userID && member.Role == entity.RoleAdmin {
				ids = append(ids, group.ID)
			}
		}
	}

	return ids, nil
}

func (r *fakeGroupRepo) AddMember(_ context.Context, member *entity.GroupMember) error {
	group, ok := r.store.groups[member.GroupID]
	if !ok {
		return repository.ErrGroupNotFound
	}
	for _, existing := range group.Members {
		if existing.UserID == member.UserID {
			return repository.ErrDuplicateMember
		}
	}
	member.CreatedAt = time.Now()
	group.Members = append(group.Members, *member)

	return nil
}

func (r *fakeGroupRepo) RemoveMember(_ context.Context, userID, groupID uuid.UUID) error {
	group, ok := r.store.groups[groupID]
	if !ok {
		return repository.ErrMembershipNotFound
	}
	for i, member := range group.Members {
		if member.UserID == userID {
			group.Members = append(group.Members[:i], group.Members[i+1:]...)

			return nil
		}
	}

	return repository.ErrMembershipNotFound
}

func (r *fakeGroupRepo) UpdateMemberRole(_ context.Context, userID, groupID uuid.UUID, role entity.MemberRole) error {
	group, ok := r.store.groups[groupID]
	if !ok {
		return repository.ErrMembershipNotFound
	}
	for i := range group.Members {
		if group.Members[i].UserID == userID {
			group.Members[i].Role = role

			return nil
		}
	}

	return repository.ErrMembershipNotFound
}

type fakeRobotRepo struct{ store *memoryStore }

func (r *fakeRobotRepo) Create(_ context.Context, robot *entity.Robot) error {
	for _, existing := range r.store.robots {
		if existing.SerialNumber == robot.SerialNumber {
			return repository.ErrDuplicateSerial
		}
	}
	if robot.ID == uuid.Nil {
		robot.ID = uuid.New()
	}
	robot.CreatedAt = time.Now()
	stored := *robot
	r.store.robots[robot.ID] = &stored

	return nil
}

func (r *fakeRobotRepo) FindBySerial(_ context.Context, serialNumber string) (*entity.Robot, error) {
	for _, robot := range r.store.robots {
		if robot.SerialNumber == serialNumber {
			return r.store.robotView(robot), nil
		}
	}

	return nil, repository.ErrRobotNotFound
}

func (r *fakeRobotRepo) FindOwnedByUser(_ context.Context, userID uuid.UUID) ([]*entity.Robot, error) {
	var robots []*entity.Robot
	for _, robot := range r.store.robots {
		if robot.OwnerType == entity.OwnerTypeUser && robot.OwnerID == userID {
			robots = append(robots, r.store.robotView(robot))
		}
	}

	return robots, nil
}

func (r *fakeRobotRepo) FindOwnedByGroups(_ context.Context, groupIDs []uuid.UUID) ([]*entity.Robot, error) {
	var robots []*entity.Robot
	for _, robot := range r.store.robots {
		if robot.OwnerType != entity.OwnerTypeGroup {
			continue
		}
		for _, groupID := range groupIDs {
			if robot.OwnerID == groupID {
				robots = append(robots, r.store.robotView(robot))

				break
			}
		}
	}

	return robots, nil
}

func (r *fakeRobotRepo) FindGrantedToUser(_ context.Context, userID uuid.UUID) ([]*entity.Robot, error) {
	var robots []*entity.Robot
	for _, grant := range r.store.grants {
		if grant.UserID != userID {
			continue
		}
		if robot, ok := r.store.robots[grant.RobotID]; ok {
			robots = append(robots, r.store.robotView(robot))
		}
	}

	return robots, nil
}

func (r *fakeRobotRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.robots[id]; !ok {
		return repository.ErrRobotNotFound
	}
	r.store.deleteRobot(id)

	return nil
}

func (r *fakeRobotRepo) DeleteOwnedByGroup(_ context.Context, groupID uuid.UUID) (int64, error) {
	var deleted int64
	for id, robot := range r.store.robots {
		if robot.OwnerType == entity.OwnerTypeGroup && robot.OwnerID == groupID {
			r.store.deleteRobot(id)
			deleted++
		}
	}

	return deleted, nil
}

type fakePermissionRepo struct{ store *memoryStore }

func (r *fakePermissionRepo) Upsert(_ context.Context, grant *entity.RobotPermission) error {
	key := pairKey(grant.UserID, grant.RobotID)
	if existing, ok := r.store.grants[key]; ok {
		existing.PermissionType = grant.PermissionType
		existing.UpdatedAt = time.Now()
		grant.CreatedAt = existing.CreatedAt

		return nil
	}
	grant.CreatedAt = time.Now()
	stored := *grant
	r.store.grants[key] = &stored

	return nil
}

func (r *fakePermissionRepo) Delete(_ context.Context, userID, robotID uuid.UUID) error {
	key := pairKey(userID, robotID)
	if _, ok := r.store.grants[key]; !ok {
		return repository.ErrGrantNotFound
	}
	delete(r.store.grants, key)

	return nil
}

func (r *fakePermissionRepo) DeleteByUserAndRobots(_ context.Context, userID uuid.UUID, robotIDs []uuid.UUID) error {
	for _, robotID := range robotIDs {
		delete(r.store.grants, pairKey(userID, robotID))
	}

	return nil
}

type fakeSettingRepo struct{ store *memoryStore }

func (r *fakeSettingRepo) Upsert(_ context.Context, setting *entity.RobotSetting) error {
	key := pairKey(setting.UserID, setting.RobotID)
	if existing, ok := r.store.settings[key]; ok {
		existing.Settings = setting.Settings
		existing.UpdatedAt = time.Now()
		setting.CreatedAt = existing.CreatedAt

		return nil
	}
	setting.CreatedAt = time.Now()
	setting.UpdatedAt = setting.CreatedAt
	stored := *setting
	r.store.settings[key] = &stored

	return nil
}

func (r *fakeSettingRepo) Find(_ context.Context, userID, robotID uuid.UUID) (*entity.RobotSetting, error) {
	setting, ok := r.store.settings[pairKey(userID, robotID)]
	if !ok {
		return nil, repository.ErrSettingNotFound
	}

	return setting, nil
}

func (r *fakeSettingRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*entity.RobotSetting, error) {
	var settings []*entity.RobotSetting
	for _, setting := range r.store.settings {
		if setting.UserID != userID {
			continue
		}
		view := *setting
		if robot, ok := r.store.robots[setting.RobotID]; ok {
			view.Robot = &entity.RobotRef{ID: robot.ID, SerialNumber: robot.SerialNumber, Name: robot.Name}
		}
		settings = append(settings, &view)
	}

	return settings, nil
}

// fakeTxManager runs the transactional function directly against the shared
// store; rollback semantics are not simulated.
type fakeTxManager struct{ store *memoryStore }

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(&fakeRepoFactory{store: m.store})
}

type fakeRepoFactory struct{ store *memoryStore }

func (f *fakeRepoFactory) UserRepo() repository.UserRepository { return &fakeUserRepo{store: f.store} }
func (f *fakeRepoFactory) GroupRepo() repository.GroupRepository {
	return &fakeGroupRepo{store: f.store}
}
func (f *fakeRepoFactory) RobotRepo() repository.RobotRepository {
	return &fakeRobotRepo{store: f.store}
}
func (f *fakeRepoFactory) PermissionRepo() repository.PermissionRepository {
	return &fakePermissionRepo{store: f.store}
}
func (f *fakeRepoFactory) SettingRepo() repository.SettingRepository {
	return &fakeSettingRepo{store: f.store}
}

// --- fake domain services ---

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Check(password, hash string) bool     { return hash == "hashed:"+password }

type fakeTokenService struct {
	tokens map[string]uuid.UUID
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{tokens: make(map[string]uuid.UUID)}
}

func (s *fakeTokenService) Generate(userID uuid.UUID) (string, error) {
	token := "token-" + uuid.NewString()
	s.tokens[token] = userID

	return token, nil
}

func (s *fakeTokenService) Validate(tokenString string) (*service.Claims, error) {
	userID, ok := s.tokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("unknown token")
	}

	return &service.Claims{UserID: userID}, nil
}

func (s *fakeTokenService) TokenDuration() time.Duration { return 7 * 24 * time.Hour }

// --- fixtures ---

// fixtures wires every service against one shared in-memory store so tests
// can drive full flows (register, group up, grant, save settings).
type fixtures struct {
	store    *memoryStore
	tokens   *fakeTokenService
	auth     usecase.AuthUsecase
	groups   usecase.GroupUsecase
	robots   usecase.RobotUsecase
	settings usecase.SettingUsecase
}

func newFixtures() *fixtures {
	store := newMemoryStore()
	logger := newDiscardLogger()
	tokens := newFakeTokenService()

	userRepo := &fakeUserRepo{store: store}
	groupRepo := &fakeGroupRepo{store: store}
	robotRepo := &fakeRobotRepo{store: store}
	permRepo := &fakePermissionRepo{store: store}
	settingRepo := &fakeSettingRepo{store: store}
	txManager := &fakeTxManager{store: store}

	return &fixtures{
		store:  store,
		tokens: tokens,
		auth: NewAuthService(AuthServiceParams{
			UserRepo:     userRepo,
			Hasher:       fakeHasher{},
			TokenService: tokens,
			Logger:       logger,
		}),
		groups: NewGroupService(GroupServiceParams{
			TxManager: txManager,
			GroupRepo: groupRepo,
			RobotRepo: robotRepo,
			UserRepo:  userRepo,
			Logger:    logger,
		}),
		robots: NewRobotService(RobotServiceParams{
			RobotRepo: robotRepo,
			GroupRepo: groupRepo,
			UserRepo:  userRepo,
			PermRepo:  permRepo,
			Logger:    logger,
		}),
		settings: NewSettingService(SettingServiceParams{
			SettingRepo: settingRepo,
			RobotRepo:   robotRepo,
			GroupRepo:   groupRepo,
			Logger:      logger,
		}),
	}
}

// registerUser is a shortcut for seeding an account.
func (f *fixtures) registerUser(ctx context.Context, name, email string) *entity.PublicUser {
	out, err := f.auth.Register(ctx, &usecase.RegisterInput{Name: name, Email: email, Password: "secret-pass"})
	if err != nil {
		panic(err)
	}

	return out.User
}
