package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/solverhub/apiserver/internal/storage"
	"github.com/solverhub/apiserver/internal/store"
	"github.com/solverhub/apiserver/types"
)

// The fakes below mirror the store layer's contract: reads see live rows
// only, misses are store.ErrNotFound, and uniqueness violations are
// store.ErrConflict.

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "digest:" + password, nil
}

func (fakeHasher) Compare(password, digest string) bool {
	return digest == "digest:"+password
}

type fakeUserRepo struct {
	users  []types.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1}
}

func (r *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	for _, existing := range r.users {
		if existing.DeletedAt != nil {
			continue
		}
		if existing.Email == user.Email || existing.Username == user.Username {
			return types.User{}, fmt.Errorf("%w: users unique index", store.ErrConflict)
		}
	}
	user.ID = r.nextID
	r.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users = append(r.users, user)
	return user, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user types.User) (types.User, error) {
	for i, existing := range r.users {
		if existing.UUID == user.UUID && existing.DeletedAt == nil {
			user.ID = existing.ID
			user.CreatedAt = existing.CreatedAt
			user.UpdatedAt = time.Now()
			r.users[i] = user
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) matches(user types.User, ident types.Identifier) bool {
	if ident.IsUUID() {
		return user.UUID == ident.UUID()
	}
	return user.ID == ident.ID()
}

func (r *fakeUserRepo) GetByIdentifier(ctx context.Context, ident types.Identifier) (types.User, error) {
	for _, user := range r.users {
		if user.DeletedAt == nil && r.matches(user, ident) {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	for _, user := range r.users {
		if user.DeletedAt == nil && user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (types.User, error) {
	for _, user := range r.users {
		if user.DeletedAt == nil && user.Username == username {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) List(ctx context.Context, skip, limit int, role *types.UserRole, status *types.UserStatus) ([]types.User, int, error) {
	var matched []types.User
	for i := len(r.users) - 1; i >= 0; i-- {
		user := r.users[i]
		if user.DeletedAt != nil {
			continue
		}
		if role != nil && user.Role != *role {
			continue
		}
		if status != nil && user.Status != *status {
			continue
		}
		matched = append(matched, user)
	}

	total := len(matched)
	if skip >= total {
		return nil, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return matched[skip:end], total, nil
}

func (r *fakeUserRepo) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	for i, user := range r.users {
		if user.DeletedAt == nil && r.matches(user, ident) {
			now := time.Now()
			r.users[i].DeletedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Prune(ctx context.Context, ident types.Identifier) (bool, error) {
	for i, user := range r.users {
		if r.matches(user, ident) {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeBuyerRepo struct {
	buyers []types.Buyer
	nextID int64
}

func newFakeBuyerRepo() *fakeBuyerRepo {
	return &fakeBuyerRepo{nextID: 1}
}

func (r *fakeBuyerRepo) Create(ctx context.Context, buyer types.Buyer) (types.Buyer, error) {
	for _, existing := range r.buyers {
		if existing.DeletedAt == nil && existing.UserID == buyer.UserID {
			return types.Buyer{}, fmt.Errorf("%w: buyers unique index", store.ErrConflict)
		}
	}
	buyer.ID = r.nextID
	r.nextID++
	r.buyers = append(r.buyers, buyer)
	return buyer, nil
}

func (r *fakeBuyerRepo) Update(ctx context.Context, buyer types.Buyer) (types.Buyer, error) {
	for i, existing := range r.buyers {
		if existing.UUID == buyer.UUID && existing.DeletedAt == nil {
			buyer.ID = existing.ID
			r.buyers[i] = buyer
			return buyer, nil
		}
	}
	return types.Buyer{}, store.ErrNotFound
}

func (r *fakeBuyerRepo) GetByIdentifier(ctx context.Context, ident types.Identifier) (types.Buyer, error) {
	for _, buyer := range r.buyers {
		if buyer.DeletedAt != nil {
			continue
		}
		if ident.IsUUID() && buyer.UUID == ident.UUID() {
			return buyer, nil
		}
		if !ident.IsUUID() && buyer.ID == ident.ID() {
			return buyer, nil
		}
	}
	return types.Buyer{}, store.ErrNotFound
}

func (r *fakeBuyerRepo) GetByUserID(ctx context.Context, userID int64) (types.Buyer, error) {
	for _, buyer := range r.buyers {
		if buyer.DeletedAt == nil && buyer.UserID == userID {
			return buyer, nil
		}
	}
	return types.Buyer{}, store.ErrNotFound
}

func (r *fakeBuyerRepo) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	for i, buyer := range r.buyers {
		if buyer.DeletedAt != nil {
			continue
		}
		if (ident.IsUUID() && buyer.UUID == ident.UUID()) || (!ident.IsUUID() && buyer.ID == ident.ID()) {
			now := time.Now()
			r.buyers[i].DeletedAt = &now
			return true, nil
		}
	}
	return false, nil
}

type fakeSolverRepo struct {
	solvers []types.Solver
	nextID  int64
}

func newFakeSolverRepo() *fakeSolverRepo {
	return &fakeSolverRepo{nextID: 1}
}

func (r *fakeSolverRepo) Create(ctx context.Context, solver types.Solver) (types.Solver, error) {
	for _, existing := range r.solvers {
		if existing.DeletedAt == nil && existing.UserID == solver.UserID {
			return types.Solver{}, fmt.Errorf("%w: solvers unique index", store.ErrConflict)
		}
	}
	solver.ID = r.nextID
	r.nextID++
	r.solvers = append(r.solvers, solver)
	return solver, nil
}

func (r *fakeSolverRepo) Update(ctx context.Context, solver types.Solver) (types.Solver, error) {
	for i, existing := range r.solvers {
		if existing.UUID == solver.UUID && existing.DeletedAt == nil {
			solver.ID = existing.ID
			r.solvers[i] = solver
			return solver, nil
		}
	}
	return types.Solver{}, store.ErrNotFound
}

func (r *fakeSolverRepo) GetByIdentifier(ctx context.Context, ident types.Identifier) (types.Solver, error) {
	for _, solver := range r.solvers {
		if solver.DeletedAt != nil {
			continue
		}
		if ident.IsUUID() && solver.UUID == ident.UUID() {
			return solver, nil
		}
		if !ident.IsUUID() && solver.ID == ident.ID() {
			return solver, nil
		}
	}
	return types.Solver{}, store.ErrNotFound
}

func (r *fakeSolverRepo) GetByUserID(ctx context.Context, userID int64) (types.Solver, error) {
	for _, solver := range r.solvers {
		if solver.DeletedAt == nil && solver.UserID == userID {
			return solver, nil
		}
	}
	return types.Solver{}, store.ErrNotFound
}

func (r *fakeSolverRepo) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	for i, solver := range r.solvers {
		if solver.DeletedAt != nil {
			continue
		}
		if (ident.IsUUID() && solver.UUID == ident.UUID()) || (!ident.IsUUID() && solver.ID == ident.ID()) {
			now := time.Now()
			r.solvers[i].DeletedAt = &now
			return true, nil
		}
	}
	return false, nil
}

type fakeStaffRepo struct {
	staff  []types.Staff
	nextID int64
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{nextID: 1}
}

func (r *fakeStaffRepo) Create(ctx context.Context, staff types.Staff) (types.Staff, error) {
	for _, existing := range r.staff {
		if existing.DeletedAt == nil && existing.UserID == staff.UserID {
			return types.Staff{}, fmt.Errorf("%w: staff unique index", store.ErrConflict)
		}
	}
	staff.ID = r.nextID
	r.nextID++
	r.staff = append(r.staff, staff)
	return staff, nil
}

func (r *fakeStaffRepo) Update(ctx context.Context, staff types.Staff) (types.Staff, error) {
	for i, existing := range r.staff {
		if existing.UUID == staff.UUID && existing.DeletedAt == nil {
			staff.ID = existing.ID
			r.staff[i] = staff
			return staff, nil
		}
	}
	return types.Staff{}, store.ErrNotFound
}

func (r *fakeStaffRepo) GetByIdentifier(ctx context.Context, ident types.Identifier) (types.Staff, error) {
	for _, staff := range r.staff {
		if staff.DeletedAt != nil {
			continue
		}
		if ident.IsUUID() && staff.UUID == ident.UUID() {
			return staff, nil
		}
		if !ident.IsUUID() && staff.ID == ident.ID() {
			return staff, nil
		}
	}
	return types.Staff{}, store.ErrNotFound
}

func (r *fakeStaffRepo) GetByUserID(ctx context.Context, userID int64) (types.Staff, error) {
	for _, staff := range r.staff {
		if staff.DeletedAt == nil && staff.UserID == userID {
			return staff, nil
		}
	}
	return types.Staff{}, store.ErrNotFound
}

func (r *fakeStaffRepo) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	for i, staff := range r.staff {
		if staff.DeletedAt != nil {
			continue
		}
		if (ident.IsUUID() && staff.UUID == ident.UUID()) || (!ident.IsUUID() && staff.ID == ident.ID()) {
			now := time.Now()
			r.staff[i].DeletedAt = &now
			return true, nil
		}
	}
	return false, nil
}

type fakeProjectRepo struct {
	projects []types.Project
	nextID   int64
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{nextID: 1}
}

func (r *fakeProjectRepo) Create(ctx context.Context, project types.Project) (types.Project, error) {
	project.ID = r.nextID
	r.nextID++
	r.projects = append(r.projects, project)
	return project, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, project types.Project) (types.Project, error) {
	for i, existing := range r.projects {
		if existing.UUID == project.UUID && existing.DeletedAt == nil {
			project.ID = existing.ID
			r.projects[i] = project
			return project, nil
		}
	}
	return types.Project{}, store.ErrNotFound
}

func (r *fakeProjectRepo) GetByIdentifier(ctx context.Context, ident types.Identifier) (types.Project, error) {
	for _, project := range r.projects {
		if project.DeletedAt != nil {
			continue
		}
		if ident.IsUUID() && project.UUID == ident.UUID() {
			return project, nil
		}
		if !ident.IsUUID() && project.ID == ident.ID() {
			return project, nil
		}
	}
	return types.Project{}, store.ErrNotFound
}

func (r *fakeProjectRepo) List(ctx context.Context, skip, limit int, buyerID *int64, status *types.ProjectStatus) ([]types.Project, int, error) {
	var matched []types.Project
	for i := len(r.projects) - 1; i >= 0; i-- {
		project := r.projects[i]
		if project.DeletedAt != nil {
			continue
		}
		if buyerID != nil && project.BuyerID != *buyerID {
			continue
		}
		if status != nil && project.Status != *status {
			continue
		}
		matched = append(matched, project)
	}

	total := len(matched)
	if skip >= total {
		return nil, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return matched[skip:end], total, nil
}

func (r *fakeProjectRepo) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	for i, project := range r.projects {
		if project.DeletedAt != nil {
			continue
		}
		if (ident.IsUUID() && project.UUID == ident.UUID()) || (!ident.IsUUID() && project.ID == ident.ID()) {
			now := time.Now()
			r.projects[i].DeletedAt = &now
			return true, nil
		}
	}
	return false, nil
}

type fakeProposalRepo struct {
	proposals []types.Proposal
	nextID    int64

	projects   *fakeProjectRepo
	approveErr error
}

func newFakeProposalRepo(projects *fakeProjectRepo) *fakeProposalRepo {
	return &fakeProposalRepo{nextID: 1, projects: projects}
}

func (r *fakeProposalRepo) Create(ctx context.Context, proposal types.Proposal) (types.Proposal, error) {
	proposal.ID = r.nextID
	r.nextID++
	now := time.Now()
	proposal.CreatedAt = now
	proposal.UpdatedAt = now
	r.proposals = append(r.proposals, proposal)
	return proposal, nil
}

func (r *fakeProposalRepo) Update(ctx context.Context, proposal types.Proposal) (types.Proposal, error) {
	for i, existing := range r.proposals {
		if existing.UUID == proposal.UUID && existing.DeletedAt == nil {
			proposal.ID = existing.ID
			proposal.UpdatedAt = time.Now()
			r.proposals[i] = proposal
			return proposal, nil
		}
	}
	return types.Proposal{}, store.ErrNotFound
}

func (r *fakeProposalRepo) GetByIdentifier(ctx context.Context, ident types.Identifier) (types.Proposal, error) {
	for _, proposal := range r.proposals {
		if proposal.DeletedAt != nil {
			continue
		}
		if ident.IsUUID() && proposal.UUID == ident.UUID() {
			return proposal, nil
		}
		if !ident.IsUUID() && proposal.ID == ident.ID() {
			return proposal, nil
		}
	}
	return types.Proposal{}, store.ErrNotFound
}

func (r *fakeProposalRepo) ListByProject(ctx context.Context, projectID int64) ([]types.Proposal, error) {
	var matched []types.Proposal
	for i := len(r.proposals) - 1; i >= 0; i-- {
		proposal := r.proposals[i]
		if proposal.DeletedAt == nil && proposal.ProjectID == projectID {
			matched = append(matched, proposal)
		}
	}
	return matched, nil
}

func (r *fakeProposalRepo) CountPending(ctx context.Context, projectID, solverID int64) (int, error) {
	count := 0
	for _, proposal := range r.proposals {
		if proposal.DeletedAt == nil &&
			proposal.ProjectID == projectID &&
			proposal.SolverID == solverID &&
			proposal.Status == types.ProposalPending {
			count++
		}
	}
	return count, nil
}

// Approve mirrors the store's transactional approve: the proposal, the
// project assignment, and the sibling rejections land together or not
// at all.
func (r *fakeProposalRepo) Approve(ctx context.Context, proposal types.Proposal, project types.Project) (types.Proposal, error) {
	if r.approveErr != nil {
		return types.Proposal{}, r.approveErr
	}

	now := time.Now()
	proposal.Status = types.ProposalApproved
	proposal.UpdatedAt = now

	project.SolverID = &proposal.SolverID
	project.SolverAssignedAt = &now
	project.Status = types.ProjectInProgress
	if _, err := r.projects.Update(ctx, project); err != nil {
		return types.Proposal{}, err
	}

	for i, existing := range r.proposals {
		if existing.DeletedAt != nil || existing.ProjectID != proposal.ProjectID {
			continue
		}
		switch {
		case existing.ID == proposal.ID:
			r.proposals[i] = proposal
		case existing.Status == types.ProposalPending:
			r.proposals[i].Status = types.ProposalRejected
			r.proposals[i].UpdatedAt = now
		}
	}
	return proposal, nil
}

func (r *fakeProposalRepo) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	for i, proposal := range r.proposals {
		if proposal.DeletedAt != nil {
			continue
		}
		if (ident.IsUUID() && proposal.UUID == ident.UUID()) || (!ident.IsUUID() && proposal.ID == ident.ID()) {
			now := time.Now()
			r.proposals[i].DeletedAt = &now
			return true, nil
		}
	}
	return false, nil
}

type fakeTaskRepo struct {
	tasks  []types.Task
	nextID int64
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{nextID: 1}
}

func (r *fakeTaskRepo) Create(ctx context.Context, task types.Task) (types.Task, error) {
	task.ID = r.nextID
	r.nextID++
	r.tasks = append(r.tasks, task)
	return task, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, task types.Task) (types.Task, error) {
	for i, existing := range r.tasks {
		if existing.UUID == task.UUID && existing.DeletedAt == nil {
			task.ID = existing.ID
			r.tasks[i] = task
			return task, nil
		}
	}
	return types.Task{}, store.ErrNotFound
}

func (r *fakeTaskRepo) GetByIdentifier(ctx context.Context, ident types.Identifier) (types.Task, error) {
	for _, task := range r.tasks {
		if task.DeletedAt != nil {
			continue
		}
		if ident.IsUUID() && task.UUID == ident.UUID() {
			return task, nil
		}
		if !ident.IsUUID() && task.ID == ident.ID() {
			return task, nil
		}
	}
	return types.Task{}, store.ErrNotFound
}

func (r *fakeTaskRepo) ListByProject(ctx context.Context, projectID int64) ([]types.Task, error) {
	var matched []types.Task
	for i := len(r.tasks) - 1; i >= 0; i-- {
		task := r.tasks[i]
		if task.DeletedAt == nil && task.ProjectID == projectID {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

func (r *fakeTaskRepo) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	for i, task := range r.tasks {
		if task.DeletedAt != nil {
			continue
		}
		if (ident.IsUUID() && task.UUID == ident.UUID()) || (!ident.IsUUID() && task.ID == ident.ID()) {
			now := time.Now()
			r.tasks[i].DeletedAt = &now
			return true, nil
		}
	}
	return false, nil
}

type fakeSubmissionRepo struct {
	submissions []types.TaskSubmission
	nextID      int64
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{nextID: 1}
}

// NextVersion counts all rows for the task, deleted included, the way
// the store's MAX(version) query does.
func (r *fakeSubmissionRepo) NextVersion(ctx context.Context, taskID int64) (int, error) {
	maxVersion := 0
	for _, existing := range r.submissions {
		if existing.TaskID == taskID && existing.Version > maxVersion {
			maxVersion = existing.Version
		}
	}
	return maxVersion + 1, nil
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, submission types.TaskSubmission) (types.TaskSubmission, error) {
	for _, existing := range r.submissions {
		if existing.TaskID == submission.TaskID && existing.Version == submission.Version {
			return types.TaskSubmission{}, fmt.Errorf("%w: task_submissions unique index", store.ErrConflict)
		}
	}
	submission.ID = r.nextID
	r.nextID++
	now := time.Now()
	submission.CreatedAt = now
	submission.UpdatedAt = now
	r.submissions = append(r.submissions, submission)
	return submission, nil
}

func (r *fakeSubmissionRepo) Update(ctx context.Context, submission types.TaskSubmission) (types.TaskSubmission, error) {
	for i, existing := range r.submissions {
		if existing.UUID == submission.UUID && existing.DeletedAt == nil {
			submission.ID = existing.ID
			submission.Version = existing.Version
			submission.UpdatedAt = time.Now()
			r.submissions[i] = submission
			return submission, nil
		}
	}
	return types.TaskSubmission{}, store.ErrNotFound
}

func (r *fakeSubmissionRepo) GetByIdentifier(ctx context.Context, ident types.Identifier) (types.TaskSubmission, error) {
	for _, submission := range r.submissions {
		if submission.DeletedAt != nil {
			continue
		}
		if ident.IsUUID() && submission.UUID == ident.UUID() {
			return submission, nil
		}
		if !ident.IsUUID() && submission.ID == ident.ID() {
			return submission, nil
		}
	}
	return types.TaskSubmission{}, store.ErrNotFound
}

func (r *fakeSubmissionRepo) ListByTask(ctx context.Context, taskID int64) ([]types.TaskSubmission, error) {
	var matched []types.TaskSubmission
	for i := len(r.submissions) - 1; i >= 0; i-- {
		submission := r.submissions[i]
		if submission.DeletedAt == nil && submission.TaskID == taskID {
			matched = append(matched, submission)
		}
	}
	return matched, nil
}

func (r *fakeSubmissionRepo) Latest(ctx context.Context, taskID int64) (types.TaskSubmission, error) {
	var latest types.TaskSubmission
	found := false
	for _, submission := range r.submissions {
		if submission.DeletedAt != nil || submission.TaskID != taskID {
			continue
		}
		if !found || submission.Version > latest.Version {
			latest = submission
			found = true
		}
	}
	if !found {
		return types.TaskSubmission{}, store.ErrNotFound
	}
	return latest, nil
}

func (r *fakeSubmissionRepo) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	for i, submission := range r.submissions {
		if submission.DeletedAt != nil {
			continue
		}
		if (ident.IsUUID() && submission.UUID == ident.UUID()) || (!ident.IsUUID() && submission.ID == ident.ID()) {
			now := time.Now()
			r.submissions[i].DeletedAt = &now
			return true, nil
		}
	}
	return false, nil
}

type fakeObjectStorage struct {
	objects map[string][]byte
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: make(map[string][]byte)}
}

func (f *fakeObjectStorage) EnsureBucket(ctx context.Context) error { return nil }

func (f *fakeObjectStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeObjectStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeObjectStorage) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeObjectStorage) Bucket() string { return "test-bucket" }

var _ storage.ObjectStorage = (*fakeObjectStorage)(nil)

type fakeCompletionRepo struct {
	requests []types.ProjectCompletionRequest
	nextID   int64

	projects   *fakeProjectRepo
	approveErr error
}

func newFakeCompletionRepo(projects *fakeProjectRepo) *fakeCompletionRepo {
	return &fakeCompletionRepo{nextID: 1, projects: projects}
}

func (r *fakeCompletionRepo) Create(ctx context.Context, request types.ProjectCompletionRequest) (types.ProjectCompletionRequest, error) {
	request.ID = r.nextID
	r.nextID++
	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now
	r.requests = append(r.requests, request)
	return request, nil
}

func (r *fakeCompletionRepo) Update(ctx context.Context, request types.ProjectCompletionRequest) (types.ProjectCompletionRequest, error) {
	for i, existing := range r.requests {
		if existing.UUID == request.UUID && existing.DeletedAt == nil {
			request.ID = existing.ID
			request.UpdatedAt = time.Now()
			r.requests[i] = request
			return request, nil
		}
	}
	return types.ProjectCompletionRequest{}, store.ErrNotFound
}

func (r *fakeCompletionRepo) GetByIdentifier(ctx context.Context, ident types.Identifier) (types.ProjectCompletionRequest, error) {
	for _, request := range r.requests {
		if request.DeletedAt != nil {
			continue
		}
		if ident.IsUUID() && request.UUID == ident.UUID() {
			return request, nil
		}
		if !ident.IsUUID() && request.ID == ident.ID() {
			return request, nil
		}
	}
	return types.ProjectCompletionRequest{}, store.ErrNotFound
}

func (r *fakeCompletionRepo) ListByProject(ctx context.Context, projectID int64) ([]types.ProjectCompletionRequest, error) {
	var matched []types.ProjectCompletionRequest
	for i := len(r.requests) - 1; i >= 0; i-- {
		request := r.requests[i]
		if request.DeletedAt == nil && request.ProjectID == projectID {
			matched = append(matched, request)
		}
	}
	return matched, nil
}

func (r *fakeCompletionRepo) CountPending(ctx context.Context, projectID int64) (int, error) {
	count := 0
	for _, request := range r.requests {
		if request.DeletedAt == nil &&
			request.ProjectID == projectID &&
			request.Status == types.CompletionPending {
			count++
		}
	}
	return count, nil
}

// Approve mirrors the store's transactional approve: the request and the
// project close-out land together or not at all.
func (r *fakeCompletionRepo) Approve(ctx context.Context, request types.ProjectCompletionRequest, project types.Project) (types.ProjectCompletionRequest, error) {
	if r.approveErr != nil {
		return types.ProjectCompletionRequest{}, r.approveErr
	}

	now := time.Now()
	request.Status = types.CompletionApproved
	request.UpdatedAt = now

	project.Status = types.ProjectCompleted
	if _, err := r.projects.Update(ctx, project); err != nil {
		return types.ProjectCompletionRequest{}, err
	}

	for i, existing := range r.requests {
		if existing.DeletedAt == nil && existing.ID == request.ID {
			r.requests[i] = request
		}
	}
	return request, nil
}

func (r *fakeCompletionRepo) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	for i, request := range r.requests {
		if request.DeletedAt != nil {
			continue
		}
		if (ident.IsUUID() && request.UUID == ident.UUID()) || (!ident.IsUUID() && request.ID == ident.ID()) {
			now := time.Now()
			r.requests[i].DeletedAt = &now
			return true, nil
		}
	}
	return false, nil
}
