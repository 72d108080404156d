package manejo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/ovinet/internal/domain/fault"
	"github.com/mamadbah2/ovinet/internal/domain/models"
)

type fakeManejoStore struct {
	tasks map[string]models.Manejo
	order []string
}

func newFakeManejoStore() *fakeManejoStore {
	return &fakeManejoStore{tasks: map[string]models.Manejo{}}
}

func (f *fakeManejoStore) GetAll(ctx context.Context) ([]models.Manejo, error) {
	out := make([]models.Manejo, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.tasks[id])
	}
	return out, nil
}

func (f *fakeManejoStore) Get(ctx context.Context, id string) (models.Manejo, error) {
	m, ok := f.tasks[id]
	if !ok {
		return models.Manejo{}, fault.NotFoundf("manejo %s", id)
	}
	return m, nil
}

func (f *fakeManejoStore) Create(ctx context.Context, m models.Manejo) error {
	f.tasks[m.ID] = m
	f.order = append(f.order, m.ID)
	return nil
}

func (f *fakeManejoStore) Update(ctx context.Context, m models.Manejo) error {
	if _, ok := f.tasks[m.ID]; !ok {
		return fault.NotFoundf("manejo %s", m.ID)
	}
	f.tasks[m.ID] = m
	return nil
}

func (f *fakeManejoStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.tasks[id]; !ok {
		return fault.NotFoundf("manejo %s", id)
	}
	delete(f.tasks, id)
	for i, tid := range f.order {
		if tid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func newTestService(store *fakeManejoStore) *Service {
	svc := NewService(store, nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local) }
	seq := 0
	svc.newID = func() string { seq++; return fmt.Sprintf("task-%d", seq) }
	return svc
}

func TestCreate_StampsSeriesReference(t *testing.T) {
	svc := newTestService(newFakeManejoStore())

	m, err := svc.Create(context.Background(), CreateInput{
		Title:            "vermifugação",
		Recurrence:       models.RecurDaily,
		RecurrenceConfig: models.RecurrenceConfig{IntervalDays: 14, DurationDays: 90},
		PlannedDate:      "2024-06-15",
	})
	require.NoError(t, err)

	assert.Equal(t, "VERMIFUGAÇÃO", m.Title)
	assert.Equal(t, models.ManejoPending, m.Status)
	assert.Equal(t, "2024-06-15", m.RecurrenceConfig.ReferenceStartDate)
	assert.Equal(t, 0, m.RecurrenceConfig.OccurrenceCount)
	assert.Equal(t, "08:00", m.PlannedTime)
}

func TestCreate_RejectsInconsistentDate(t *testing.T) {
	svc := newTestService(newFakeManejoStore())

	// 2024-06-15 is a Saturday; only Monday selected.
	_, err := svc.Create(context.Background(), CreateInput{
		Title:            "Pesagem",
		Recurrence:       models.RecurWeekly,
		RecurrenceConfig: models.RecurrenceConfig{Weekdays: []int{1}},
		PlannedDate:      "2024-06-15",
	})
	assert.ErrorIs(t, err, fault.ErrValidation)
}

func TestCreate_AutoAdjustMovesDate(t *testing.T) {
	svc := newTestService(newFakeManejoStore())

	m, err := svc.Create(context.Background(), CreateInput{
		Title:            "Pesagem",
		Recurrence:       models.RecurWeekly,
		RecurrenceConfig: models.RecurrenceConfig{Weekdays: []int{1}},
		PlannedDate:      "2024-06-15",
		AutoAdjust:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-17", m.PlannedDate) // next Monday
	assert.Equal(t, "2024-06-17", m.RecurrenceConfig.ReferenceStartDate)
}

func TestCreate_RejectsGroupAndSheepListTogether(t *testing.T) {
	svc := newTestService(newFakeManejoStore())

	_, err := svc.Create(context.Background(), CreateInput{
		Title:       "Casqueamento",
		PlannedDate: "2024-06-15",
		GroupID:     "g1",
		SheepIDs:    []string{"s1"},
	})
	assert.ErrorIs(t, err, fault.ErrValidation)
}

func TestComplete_SeedsNextPendingInstance(t *testing.T) {
	store := newFakeManejoStore()
	svc := newTestService(store)

	m, err := svc.Create(context.Background(), CreateInput{
		Title:            "Footbath",
		Recurrence:       models.RecurDaily,
		RecurrenceConfig: models.RecurrenceConfig{IntervalDays: 7},
		PlannedDate:      "2024-06-10",
	})
	require.NoError(t, err)

	done, next, err := svc.Complete(context.Background(), m.ID, "joão", "tudo ok", "2024-06-10")
	require.NoError(t, err)

	assert.Equal(t, models.ManejoDone, done.Status)
	assert.Equal(t, "2024-06-10", done.ExecutionDate)
	assert.Equal(t, "JOÃO", done.Worker)

	require.NotNil(t, next)
	assert.Equal(t, models.ManejoPending, next.Status)
	assert.Equal(t, "2024-06-17", next.PlannedDate)
	assert.Equal(t, 1, next.RecurrenceConfig.OccurrenceCount)
	assert.Empty(t, next.Worker)
	assert.NotEqual(t, done.ID, next.ID)
}

func TestComplete_SeriesEndsAtDurationCap(t *testing.T) {
	store := newFakeManejoStore()
	svc := newTestService(store)

	m, err := svc.Create(context.Background(), CreateInput{
		Title:            "Footbath",
		Recurrence:       models.RecurDaily,
		RecurrenceConfig: models.RecurrenceConfig{IntervalDays: 7, DurationDays: 5},
		PlannedDate:      "2024-06-10",
	})
	require.NoError(t, err)

	_, next, err := svc.Complete(context.Background(), m.ID, "Ana", "", "")
	require.NoError(t, err)
	assert.Nil(t, next, "the series must end once the cap is passed")
}

func TestComplete_NonRecurring(t *testing.T) {
	svc := newTestService(newFakeManejoStore())

	m, err := svc.Create(context.Background(), CreateInput{Title: "Tosquia", PlannedDate: "2024-06-12"})
	require.NoError(t, err)

	done, next, err := svc.Complete(context.Background(), m.ID, "Ana", "", "")
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, "2024-06-10", done.ExecutionDate) // defaulted to today
}

func TestComplete_AlreadyDone(t *testing.T) {
	svc := newTestService(newFakeManejoStore())

	m, err := svc.Create(context.Background(), CreateInput{Title: "Tosquia", PlannedDate: "2024-06-12"})
	require.NoError(t, err)
	_, _, err = svc.Complete(context.Background(), m.ID, "Ana", "", "")
	require.NoError(t, err)

	_, _, err = svc.Complete(context.Background(), m.ID, "Ana", "", "")
	assert.ErrorIs(t, err, fault.ErrInvalidState)
}

func TestUpdate_KeepsSeriesReference(t *testing.T) {
	svc := newTestService(newFakeManejoStore())

	m, err := svc.Create(context.Background(), CreateInput{
		Title:            "Pesagem",
		Recurrence:       models.RecurMonthly,
		RecurrenceConfig: models.RecurrenceConfig{DayOfMonth: 15},
		PlannedDate:      "2024-06-15",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), m.ID, CreateInput{
		Title:            "Pesagem geral",
		Recurrence:       models.RecurMonthly,
		RecurrenceConfig: models.RecurrenceConfig{DayOfMonth: 20},
		PlannedDate:      "2024-07-20",
	})
	require.NoError(t, err)

	assert.Equal(t, "PESAGEM GERAL", updated.Title)
	assert.Equal(t, 20, updated.RecurrenceConfig.DayOfMonth)
	assert.Equal(t, "2024-06-15", updated.RecurrenceConfig.ReferenceStartDate)
	assert.True(t, updated.EditedByManager)
	assert.False(t, updated.LastEditedAt.IsZero())
}

func TestCancelAndDelete(t *testing.T) {
	svc := newTestService(newFakeManejoStore())

	m, err := svc.Create(context.Background(), CreateInput{Title: "Tosquia", PlannedDate: "2024-06-12"})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ManejoCancelled, cancelled.Status)

	require.NoError(t, svc.Delete(context.Background(), m.ID))
	err = svc.Delete(context.Background(), m.ID)
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func TestValidateDate_SuggestsReplacement(t *testing.T) {
	svc := newTestService(newFakeManejoStore())

	ok, reason, suggested := svc.ValidateDate(models.RecurWeekly, models.RecurrenceConfig{Weekdays: []int{5}}, "2024-06-10")
	assert.False(t, ok)
	assert.Equal(t, "weekday_not_selected", reason)
	assert.Equal(t, "2024-06-14", suggested) // next Friday
}

func TestAgenda_SortedAcrossTasks(t *testing.T) {
	store := newFakeManejoStore()
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), CreateInput{
		Title:            "Footbath",
		Recurrence:       models.RecurWeekly,
		RecurrenceConfig: models.RecurrenceConfig{Weekdays: []int{1}},
		PlannedDate:      "2024-06-03",
		PlannedTime:      "14:00",
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateInput{
		Title:       "Tosquia",
		PlannedDate: "2024-06-03",
		PlannedTime: "07:00",
	})
	require.NoError(t, err)

	occ, err := svc.Agenda(context.Background(), "2024-06-01", "2024-06-30")
	require.NoError(t, err)

	// 4 Mondays in the window plus the one-off task.
	require.Len(t, occ, 5)
	assert.Equal(t, "TOSQUIA", occ[0].Manejo.Title, "same-day tasks sort by planned time")
	prev := ""
	for _, o := range occ {
		assert.GreaterOrEqual(t, o.Date, prev)
		prev = o.Date
	}
}

func TestAgenda_ExcludesCancelledAndFreezesDone(t *testing.T) {
	store := newFakeManejoStore()
	svc := newTestService(store)

	recurring, err := svc.Create(context.Background(), CreateInput{
		Title:            "Footbath",
		Recurrence:       models.RecurWeekly,
		RecurrenceConfig: models.RecurrenceConfig{Weekdays: []int{1}},
		PlannedDate:      "2024-06-03",
	})
	require.NoError(t, err)
	cancelled, err := svc.Create(context.Background(), CreateInput{Title: "Tosquia", PlannedDate: "2024-06-05"})
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background(), cancelled.ID)
	require.NoError(t, err)

	done, next, err := svc.Complete(context.Background(), recurring.ID, "Ana", "", "2024-06-03")
	require.NoError(t, err)
	require.NotNil(t, next)

	occ, err := svc.Agenda(context.Background(), "2024-06-01", "2024-06-30")
	require.NoError(t, err)

	var doneDates, pendingDates []string
	for _, o := range occ {
		switch o.Manejo.ID {
		case done.ID:
			doneDates = append(doneDates, o.Date)
		case next.ID:
			pendingDates = append(pendingDates, o.Date)
		case cancelled.ID:
			t.Fatalf("cancelled task projected on %s", o.Date)
		}
	}

	// The completed instance keeps only its own date; the follow-up carries
	// the rest of the series.
	assert.Equal(t, []string{"2024-06-03"}, doneDates)
	assert.Equal(t, []string{"2024-06-10", "2024-06-17", "2024-06-24"}, pendingDates)
}
