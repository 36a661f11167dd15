package commands

import (
	"context"
	"sort"
	"sync"
	"time"

	identityDomain "github.com/felixgeelhaar/planify/internal/identity/domain"
	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// memoryStore backs every repository used by the handlers. It stores
// copies so that a rolled back unit of work leaves no trace.
type memoryStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*identityDomain.User
	blocks        []*domain.WorkScheduleBlock
	absences      map[uuid.UUID]*domain.Absence
	meetings      map[uuid.UUID]*domain.Meeting
	notifications map[uuid.UUID]*domain.Notification
	messages      []*outbox.Message

	// vanished meetings are still listed per participant but no longer
	// found by id.
	vanished map[uuid.UUID]bool
}

type storeState struct {
	users         map[uuid.UUID]*identityDomain.User
	blocks        []*domain.WorkScheduleBlock
	absences      map[uuid.UUID]*domain.Absence
	meetings      map[uuid.UUID]*domain.Meeting
	notifications map[uuid.UUID]*domain.Notification
	messages      []*outbox.Message
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:         make(map[uuid.UUID]*identityDomain.User),
		absences:      make(map[uuid.UUID]*domain.Absence),
		meetings:      make(map[uuid.UUID]*domain.Meeting),
		notifications: make(map[uuid.UUID]*domain.Notification),
		vanished:      make(map[uuid.UUID]bool),
	}
}

func (s *memoryStore) repositories() Repositories {
	return Repositories{
		Users:         memUsers{s},
		Schedule:      memSchedule{s},
		Absences:      memAbsences{s},
		Meetings:      memMeetings{s},
		Notifications: memNotifications{s},
		Outbox:        memOutbox{s},
	}
}

func (s *memoryStore) snapshot() storeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storeState{
		users:         copyMap(s.users),
		blocks:        append([]*domain.WorkScheduleBlock(nil), s.blocks...),
		absences:      copyMap(s.absences),
		meetings:      copyMap(s.meetings),
		notifications: copyMap(s.notifications),
		messages:      append([]*outbox.Message(nil), s.messages...),
	}
}

func (s *memoryStore) restore(state storeState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = state.users
	s.blocks = state.blocks
	s.absences = state.absences
	s.meetings = state.meetings
	s.notifications = state.notifications
	s.messages = state.messages
}

func (s *memoryStore) routingKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.messages))
	for _, m := range s.messages {
		keys = append(keys, m.RoutingKey)
	}
	return keys
}

func (s *memoryStore) meeting(id uuid.UUID) *domain.Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.meetings[id]; ok {
		return cloneMeeting(m)
	}
	return nil
}

func (s *memoryStore) user(id uuid.UUID) *identityDomain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUser(s.users[id])
}

func (s *memoryStore) notificationsFor(recipientID uuid.UUID) []*domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found []*domain.Notification
	for _, n := range s.notifications {
		if n.RecipientID() == recipientID {
			found = append(found, cloneNotification(n))
		}
	}
	return found
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type txKey struct{}

// memoryUnitOfWork snapshots the store on Begin and restores it on Rollback.
type memoryUnitOfWork struct {
	store *memoryStore
}

func (u memoryUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	return context.WithValue(ctx, txKey{}, u.store.snapshot()), nil
}

func (u memoryUnitOfWork) Commit(context.Context) error { return nil }

func (u memoryUnitOfWork) Rollback(ctx context.Context) error {
	if state, ok := ctx.Value(txKey{}).(storeState); ok {
		u.store.restore(state)
	}
	return nil
}

func cloneUser(u *identityDomain.User) *identityDomain.User {
	if u == nil {
		return nil
	}
	return identityDomain.RehydrateUser(u.ID(), u.Email(), u.Name(), u.Surname(), u.IsActive(), u.IsBlocked(), u.CreatedAt(), u.UpdatedAt())
}

func cloneMeeting(m *domain.Meeting) *domain.Meeting {
	attendances := make([]*domain.Attendance, 0, len(m.Attendances()))
	for _, a := range m.Attendances() {
		attendances = append(attendances, domain.RehydrateAttendance(
			a.ID(), a.MeetingID(), a.UserID(), a.Role(), a.InvitationStatus(),
			a.DeclineReason(), a.HasAssisted(), a.CreatedAt(), a.UpdatedAt(),
		))
	}
	return domain.RehydrateMeeting(m.ID(), m.Details(), m.Status(), attendances, m.CreatedAt(), m.UpdatedAt())
}

func cloneAbsence(a *domain.Absence) *domain.Absence {
	return domain.RehydrateAbsence(a.ID(), a.UserID(), a.Type(), a.IsAllDay(), a.Period(), a.CreatedAt(), a.UpdatedAt())
}

func cloneNotification(n *domain.Notification) *domain.Notification {
	return domain.RehydrateNotification(n.ID(), n.RecipientID(), n.MeetingID(), n.Description(), n.IsRead(), n.ReadAt(), n.CreatedAt(), n.UpdatedAt())
}

type memUsers struct{ s *memoryStore }

func (r memUsers) Save(_ context.Context, user *identityDomain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID()] = cloneUser(user)
	return nil
}

func (r memUsers) FindByID(_ context.Context, id uuid.UUID) (*identityDomain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, identityDomain.ErrUserNotFound
}

func (r memUsers) FindByEmail(_ context.Context, email identityDomain.Email) (*identityDomain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email().Equals(email) {
			return cloneUser(u), nil
		}
	}
	return nil, identityDomain.ErrUserNotFound
}

func (r memUsers) ExistsByEmail(ctx context.Context, email identityDomain.Email) (bool, error) {
	u, _ := r.FindByEmail(ctx, email)
	return u != nil, nil
}

func (r memUsers) ListAvailable(_ context.Context) ([]*identityDomain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var users []*identityDomain.User
	for _, u := range r.s.users {
		if u.IsAvailable() {
			users = append(users, cloneUser(u))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].FullName() < users[j].FullName() })
	return users, nil
}

type memSchedule struct{ s *memoryStore }

func (r memSchedule) Get(context.Context) (*domain.WorkSchedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return domain.RehydrateWorkSchedule(r.s.blocks), nil
}

func (r memSchedule) Save(_ context.Context, schedule *domain.WorkSchedule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.blocks = append([]*domain.WorkScheduleBlock(nil), schedule.Blocks()...)
	return nil
}

type memAbsences struct{ s *memoryStore }

func (r memAbsences) Save(_ context.Context, absence *domain.Absence) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.absences[absence.ID()] = cloneAbsence(absence)
	return nil
}

func (r memAbsences) FindByID(_ context.Context, id uuid.UUID) (*domain.Absence, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.absences[id]; ok {
		return cloneAbsence(a), nil
	}
	return nil, nil
}

func (r memAbsences) FindByUser(_ context.Context, userID uuid.UUID) ([]*domain.Absence, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found []*domain.Absence
	for _, a := range r.s.absences {
		if a.UserID() == userID {
			found = append(found, cloneAbsence(a))
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Start().Before(found[j].Start()) })
	return found, nil
}

func (r memAbsences) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.absences, id)
	return nil
}

type memMeetings struct{ s *memoryStore }

func (r memMeetings) Save(_ context.Context, meeting *domain.Meeting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.meetings[meeting.ID()] = cloneMeeting(meeting)
	return nil
}

func (r memMeetings) FindByID(_ context.Context, id uuid.UUID) (*domain.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.meetings[id]
	if !ok || r.s.vanished[id] {
		return nil, nil
	}
	return cloneMeeting(m), nil
}

func (r memMeetings) FindOpenByParticipant(ctx context.Context, userID uuid.UUID) ([]*domain.Meeting, error) {
	all, err := r.FindByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	var open []*domain.Meeting
	for _, m := range all {
		if m.IsOpen() {
			open = append(open, m)
		}
	}
	return open, nil
}

func (r memMeetings) CountOpenByParticipant(ctx context.Context, userID uuid.UUID) (int, error) {
	open, err := r.FindOpenByParticipant(ctx, userID)
	return len(open), err
}

func (r memMeetings) FindByParticipant(_ context.Context, userID uuid.UUID) ([]*domain.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found []*domain.Meeting
	for _, m := range r.s.meetings {
		if m.AttendanceOf(userID) != nil {
			found = append(found, cloneMeeting(m))
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Period().Start.Before(found[j].Period().Start) })
	return found, nil
}

type memNotifications struct{ s *memoryStore }

func (r memNotifications) Save(_ context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notifications[n.ID()] = cloneNotification(n)
	return nil
}

func (r memNotifications) FindByID(_ context.Context, id uuid.UUID) (*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n, ok := r.s.notifications[id]; ok {
		return cloneNotification(n), nil
	}
	return nil, nil
}

func (r memNotifications) FindByRecipient(_ context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found []*domain.Notification
	for _, n := range r.s.notifications {
		if n.RecipientID() == recipientID && (!unreadOnly || !n.IsRead()) {
			found = append(found, cloneNotification(n))
		}
	}
	return found, nil
}

func (r memNotifications) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.notifications, id)
	return nil
}

func (r memNotifications) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, notification := range r.s.notifications {
		if notification.IsRead() && notification.ReadAt().Before(cutoff) {
			delete(r.s.notifications, id)
			n++
		}
	}
	return n, nil
}

type memOutbox struct{ s *memoryStore }

func (r memOutbox) Save(ctx context.Context, msg *outbox.Message) error {
	return r.SaveBatch(ctx, []*outbox.Message{msg})
}

func (r memOutbox) SaveBatch(_ context.Context, msgs []*outbox.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.messages = append(r.s.messages, msgs...)
	return nil
}

func (r memOutbox) GetUnpublished(context.Context, int) ([]*outbox.Message, error) { return nil, nil }
func (r memOutbox) MarkPublished(context.Context, int64) error                     { return nil }
func (r memOutbox) MarkFailed(context.Context, int64, string, time.Time) error     { return nil }
func (r memOutbox) MarkDead(context.Context, int64, string) error                  { return nil }
func (r memOutbox) GetFailed(context.Context, int, int) ([]*outbox.Message, error) { return nil, nil }
func (r memOutbox) DeleteOld(context.Context, int) (int64, error)                  { return 0, nil }
