package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/volumetric/internal/models"
	"github.com/claude/volumetric/internal/storage"
	"github.com/google/uuid"
)

// fakeStore is an in-memory Store for pipeline tests.
type fakeStore struct {
	sessions    map[uuid.UUID]models.WorkoutSession
	perfs       map[uuid.UUID][]models.ExercisePerformance
	mappings    map[int][]models.ExerciseMuscleMapping
	progression []models.LoadProgressionRecord
	weekly      map[string]*models.WeeklyVolumeRecord
	landmarks   []models.VolumeLandmark
	feedback    map[uuid.UUID]models.RecoveryFeedback

	perfsErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: map[uuid.UUID]models.WorkoutSession{},
		perfs:    map[uuid.UUID][]models.ExercisePerformance{},
		mappings: map[int][]models.ExerciseMuscleMapping{},
		weekly:   map[string]*models.WeeklyVolumeRecord{},
		feedback: map[uuid.UUID]models.RecoveryFeedback{},
	}
}

func weekKey(userID, mgID int, weekStart time.Time) string {
	return fmt.Sprintf("%d|%d|%s", userID, mgID, weekStart.UTC().Format(time.RFC3339))
}

func (f *fakeStore) GetSession(_ context.Context, id uuid.UUID) (*models.WorkoutSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, storage.ErrNoRows
	}
	return &s, nil
}

func (f *fakeStore) CompletedPerformancesBySession(_ context.Context, sessionID uuid.UUID) ([]models.ExercisePerformance, error) {
	if f.perfsErr != nil {
		return nil, f.perfsErr
	}
	return f.perfs[sessionID], nil
}

func (f *fakeStore) MappingsByExercise(_ context.Context, exerciseID int) ([]models.ExerciseMuscleMapping, error) {
	return f.mappings[exerciseID], nil
}

func (f *fakeStore) LatestProgressionRecord(_ context.Context, userID, exerciseID int) (*models.LoadProgressionRecord, error) {
	var latest *models.LoadProgressionRecord
	for i := range f.progression {
		r := &f.progression[i]
		if r.UserID != userID || r.ExerciseID != exerciseID {
			continue
		}
		if latest == nil || r.SessionDate.After(latest.SessionDate) {
			latest = r
		}
	}
	if latest == nil {
		return nil, storage.ErrNoRows
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeStore) InsertProgressionRecord(_ context.Context, r models.LoadProgressionRecord) (models.LoadProgressionRecord, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.progression = append(f.progression, r)
	return r, nil
}

func (f *fakeStore) AccumulateWeeklyVolume(_ context.Context, userID, mgID int, weekStart time.Time, volumeKg float64, sets int) error {
	key := weekKey(userID, mgID, weekStart)
	if rec, ok := f.weekly[key]; ok {
		rec.TotalVolumeKg += volumeKg
		rec.TotalSets += sets
		return nil
	}
	f.weekly[key] = &models.WeeklyVolumeRecord{
		ID: uuid.New(), UserID: userID, MuscleGroupID: mgID,
		WeekStart: weekStart, TotalVolumeKg: volumeKg, TotalSets: sets,
	}
	return nil
}

func (f *fakeStore) GetWeeklyVolume(_ context.Context, userID, mgID int, weekStart time.Time) (*models.WeeklyVolumeRecord, error) {
	rec, ok := f.weekly[weekKey(userID, mgID, weekStart)]
	if !ok {
		return nil, storage.ErrNoRows
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeStore) LandmarksByUser(_ context.Context, userID int) ([]models.VolumeLandmark, error) {
	var result []models.VolumeLandmark
	for _, l := range f.landmarks {
		if l.UserID == userID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (f *fakeStore) UpdateLandmarkState(_ context.Context, id uuid.UUID, currentVolume float64, recoveryLevel, adaptationLevel int, updatedAt time.Time) error {
	for i := range f.landmarks {
		if f.landmarks[i].ID == id {
			f.landmarks[i].CurrentVolume = currentVolume
			f.landmarks[i].RecoveryLevel = recoveryLevel
			f.landmarks[i].AdaptationLevel = adaptationLevel
			f.landmarks[i].UpdatedAt = updatedAt
			return nil
		}
	}
	return storage.ErrNoRows
}

func (f *fakeStore) FeedbackBySession(_ context.Context, sessionID uuid.UUID) (*models.RecoveryFeedback, error) {
	fb, ok := f.feedback[sessionID]
	if !ok {
		return nil, storage.ErrNoRows
	}
	return &fb, nil
}

// --- Test helpers ---

func newTestPipeline(store Store) *Pipeline {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, time.UTC, log)
}

func (f *fakeStore) addSession(userID int, date time.Time) uuid.UUID {
	id := uuid.New()
	f.sessions[id] = models.WorkoutSession{ID: id, UserID: userID, SessionDate: date, Completed: true}
	return id
}

func (f *fakeStore) addPerf(sessionID uuid.UUID, exerciseID int, sets int, reps string, weight float64, rpe *float64) {
	f.perfs[sessionID] = append(f.perfs[sessionID], models.ExercisePerformance{
		ID: uuid.New(), SessionID: sessionID, ExerciseID: exerciseID,
		SetsCount: sets, ActualReps: reps, WeightKg: weight, RPE: rpe, Completed: true,
	})
}

func floatPtr(v float64) *float64 { return &v }

// Thursday of an arbitrary fixed week.
var thursday = time.Date(2026, 2, 19, 18, 0, 0, 0, time.UTC)

// TestBaselineClassification verifies that a user's first record for an
// exercise is classified baseline and carries an estimated 1RM when RPE was
// logged.
func TestBaselineClassification(t *testing.T) {
	store := newFakeStore()
	sid := store.addSession(1, thursday)
	store.addPerf(sid, 7, 3, "8,10,12", 100, floatPtr(9))

	res, err := newTestPipeline(store).ProcessSessionCompletion(context.Background(), sid, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PerformancesTracked != 1 {
		t.Fatalf("performances tracked = %d, want 1", res.PerformancesTracked)
	}
	rec := store.progression[0]
	if rec.Classification != models.ClassBaseline {
		t.Errorf("classification = %q, want baseline", rec.Classification)
	}
	if rec.VolumeKg != 3000 {
		t.Errorf("volume = %f, want 3000", rec.VolumeKg)
	}
	if rec.Estimated1RM == nil {
		t.Error("estimated 1RM missing despite RPE present")
	} else if *rec.Estimated1RM <= 100 {
		t.Errorf("estimated 1RM = %f, want > weight", *rec.Estimated1RM)
	}
}

// TestNoRPEMeansNo1RM verifies that a performance without RPE produces a
// record with no estimated 1RM.
func TestNoRPEMeansNo1RM(t *testing.T) {
	store := newFakeStore()
	sid := store.addSession(1, thursday)
	store.addPerf(sid, 7, 3, "10,10,10", 80, nil)

	if _, err := newTestPipeline(store).ProcessSessionCompletion(context.Background(), sid, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.progression[0].Estimated1RM != nil {
		t.Error("estimated 1RM set without RPE")
	}
}

// TestImprovedAfterVolumeIncrease verifies that a 6% volume increase over the
// prior record classifies improved.
func TestImprovedAfterVolumeIncrease(t *testing.T) {
	store := newFakeStore()
	store.progression = append(store.progression, models.LoadProgressionRecord{
		ID: uuid.New(), UserID: 1, ExerciseID: 7,
		SessionDate: thursday.AddDate(0, 0, -7), WeightKg: 100, VolumeKg: 1000,
		Classification: models.ClassBaseline,
	})
	sid := store.addSession(1, thursday)
	store.addPerf(sid, 7, 1, "10", 106, nil) // volume 1060

	if _, err := newTestPipeline(store).ProcessSessionCompletion(context.Background(), sid, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := store.progression[len(store.progression)-1]
	if rec.Classification != models.ClassImproved {
		t.Errorf("classification = %q, want improved", rec.Classification)
	}
}

// TestDeclinedAfterVolumeDrop verifies that a 6% volume drop at unchanged
// weight classifies declined.
func TestDeclinedAfterVolumeDrop(t *testing.T) {
	store := newFakeStore()
	store.progression = append(store.progression, models.LoadProgressionRecord{
		ID: uuid.New(), UserID: 1, ExerciseID: 7,
		SessionDate: thursday.AddDate(0, 0, -7), WeightKg: 100, VolumeKg: 1000,
		Classification: models.ClassBaseline,
	})
	sid := store.addSession(1, thursday)
	store.addPerf(sid, 7, 1, "9", 100, nil) // volume 900, weight unchanged

	if _, err := newTestPipeline(store).ProcessSessionCompletion(context.Background(), sid, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := store.progression[len(store.progression)-1]
	if rec.Classification != models.ClassDeclined {
		t.Errorf("classification = %q, want declined", rec.Classification)
	}
}

// TestWeeklyAccumulationAcrossSessions verifies that two sessions in the same
// calendar week accumulate into a single weekly record instead of
// overwriting it.
func TestWeeklyAccumulationAcrossSessions(t *testing.T) {
	store := newFakeStore()
	store.mappings[7] = []models.ExerciseMuscleMapping{{ExerciseID: 7, MuscleGroupID: 3, Contribution: 1.0}}

	p := newTestPipeline(store)

	s1 := store.addSession(1, thursday)
	store.addPerf(s1, 7, 3, "10,10,10", 100, nil) // 3000 kg, 3 sets
	if _, err := p.ProcessSessionCompletion(context.Background(), s1, 1); err != nil {
		t.Fatalf("session 1: %v", err)
	}

	s2 := store.addSession(1, thursday.AddDate(0, 0, 1)) // Friday, same week
	store.addPerf(s2, 7, 2, "8,8", 100, nil)             // 1600 kg, 2 sets
	if _, err := p.ProcessSessionCompletion(context.Background(), s2, 1); err != nil {
		t.Fatalf("session 2: %v", err)
	}

	if len(store.weekly) != 1 {
		t.Fatalf("weekly records = %d, want 1", len(store.weekly))
	}
	for _, rec := range store.weekly {
		if rec.TotalVolumeKg != 4600 {
			t.Errorf("total volume = %f, want 4600", rec.TotalVolumeKg)
		}
		if rec.TotalSets != 5 {
			t.Errorf("total sets = %d, want 5", rec.TotalSets)
		}
	}
}

// TestWeekBoundarySplitsBuckets verifies that sessions straddling the
// Sunday/Monday boundary land in two weekly records one week apart.
func TestWeekBoundarySplitsBuckets(t *testing.T) {
	store := newFakeStore()
	store.mappings[7] = []models.ExerciseMuscleMapping{{ExerciseID: 7, MuscleGroupID: 3, Contribution: 1.0}}

	p := newTestPipeline(store)

	sunday := time.Date(2026, 2, 15, 23, 59, 0, 0, time.UTC)
	monday := time.Date(2026, 2, 16, 0, 1, 0, 0, time.UTC)

	s1 := store.addSession(1, sunday)
	store.addPerf(s1, 7, 1, "10", 100, nil)
	if _, err := p.ProcessSessionCompletion(context.Background(), s1, 1); err != nil {
		t.Fatalf("sunday session: %v", err)
	}

	s2 := store.addSession(1, monday)
	store.addPerf(s2, 7, 1, "10", 100, nil)
	if _, err := p.ProcessSessionCompletion(context.Background(), s2, 1); err != nil {
		t.Fatalf("monday session: %v", err)
	}

	if len(store.weekly) != 2 {
		t.Fatalf("weekly records = %d, want 2", len(store.weekly))
	}
	var starts []time.Time
	for _, rec := range store.weekly {
		starts = append(starts, rec.WeekStart)
	}
	diff := starts[0].Sub(starts[1])
	if diff < 0 {
		diff = -diff
	}
	if diff != 7*24*time.Hour {
		t.Errorf("week starts %v apart, want exactly one week", diff)
	}
}

// TestContributionWeighting verifies that a compound lift's volume is split
// across muscle groups by mapping weight while set counts are not scaled.
func TestContributionWeighting(t *testing.T) {
	store := newFakeStore()
	store.mappings[7] = []models.ExerciseMuscleMapping{
		{ExerciseID: 7, MuscleGroupID: 3, Contribution: 1.0},
		{ExerciseID: 7, MuscleGroupID: 4, Contribution: 0.5},
	}

	sid := store.addSession(1, thursday)
	store.addPerf(sid, 7, 2, "10,10", 100, nil) // 2000 kg raw

	if _, err := newTestPipeline(store).ProcessSessionCompletion(context.Background(), sid, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	primary := store.weekly[weekKey(1, 3, time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC))]
	secondary := store.weekly[weekKey(1, 4, time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC))]
	if primary == nil || secondary == nil {
		t.Fatalf("expected records for both muscle groups, got %v", store.weekly)
	}
	if primary.TotalVolumeKg != 2000 {
		t.Errorf("primary volume = %f, want 2000", primary.TotalVolumeKg)
	}
	if secondary.TotalVolumeKg != 1000 {
		t.Errorf("secondary volume = %f, want 1000", secondary.TotalVolumeKg)
	}
	if primary.TotalSets != 2 || secondary.TotalSets != 2 {
		t.Errorf("sets = %d/%d, want 2/2", primary.TotalSets, secondary.TotalSets)
	}
}

// TestLandmarkNoOpWithoutFeedback verifies that landmarks stay untouched when
// the session has no recovery feedback.
func TestLandmarkNoOpWithoutFeedback(t *testing.T) {
	store := newFakeStore()
	store.mappings[7] = []models.ExerciseMuscleMapping{{ExerciseID: 7, MuscleGroupID: 3, Contribution: 1.0}}
	store.landmarks = []models.VolumeLandmark{{
		ID: uuid.New(), UserID: 1, MuscleGroupID: 3,
		CurrentVolume: 12, RecoveryLevel: 5, AdaptationLevel: 5,
	}}

	sid := store.addSession(1, thursday)
	store.addPerf(sid, 7, 3, "10,10,10", 100, nil)

	res, err := newTestPipeline(store).ProcessSessionCompletion(context.Background(), sid, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FeedbackPresent {
		t.Error("feedback reported present")
	}
	if res.LandmarksUpdated != 0 {
		t.Errorf("landmarks updated = %d, want 0", res.LandmarksUpdated)
	}
	l := store.landmarks[0]
	if l.CurrentVolume != 12 || l.RecoveryLevel != 5 || l.AdaptationLevel != 5 {
		t.Errorf("landmark mutated without feedback: %+v", l)
	}
}

// TestLandmarkUpdateWithFeedback verifies that with feedback present the
// landmark picks up the week's set total and the two weighted scores.
func TestLandmarkUpdateWithFeedback(t *testing.T) {
	store := newFakeStore()
	store.mappings[7] = []models.ExerciseMuscleMapping{{ExerciseID: 7, MuscleGroupID: 3, Contribution: 1.0}}
	store.landmarks = []models.VolumeLandmark{{
		ID: uuid.New(), UserID: 1, MuscleGroupID: 3,
		MEV: 8, MAV: 14, MRV: 20,
	}}

	sid := store.addSession(1, thursday)
	store.addPerf(sid, 7, 4, "10,10,10,10", 100, nil)
	store.feedback[sid] = models.RecoveryFeedback{
		SessionID: sid, UserID: 1,
		SleepQuality: 8, EnergyLevel: 6, MuscleSoreness: 3,
		PumpQuality: 8, PerceivedEffort: 4,
	}

	res, err := newTestPipeline(store).ProcessSessionCompletion(context.Background(), sid, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.FeedbackPresent || res.LandmarksUpdated != 1 {
		t.Fatalf("feedback=%v landmarks=%d, want true/1", res.FeedbackPresent, res.LandmarksUpdated)
	}

	l := store.landmarks[0]
	if l.CurrentVolume != 4 {
		t.Errorf("current volume = %f, want 4 (weekly sets)", l.CurrentVolume)
	}
	// sleep 8, energy 6, soreness 3: 2.4 + 1.8 + 3.2 = 7.4 -> 7
	if l.RecoveryLevel != 7 {
		t.Errorf("recovery = %d, want 7", l.RecoveryLevel)
	}
	// pump 8, effort 4, energy 6: 4.0 + 2.1 + 1.2 = 7.3 -> 7
	if l.AdaptationLevel != 7 {
		t.Errorf("adaptation = %d, want 7", l.AdaptationLevel)
	}
	if l.UpdatedAt.IsZero() {
		t.Error("updated_at not refreshed")
	}
}

// TestExtremeFeedbackClamped verifies that out-of-scale feedback still yields
// scores inside [1, 10].
func TestExtremeFeedbackClamped(t *testing.T) {
	store := newFakeStore()
	store.landmarks = []models.VolumeLandmark{{ID: uuid.New(), UserID: 1, MuscleGroupID: 3}}

	sid := store.addSession(1, thursday)
	store.feedback[sid] = models.RecoveryFeedback{
		SessionID: sid, UserID: 1,
		SleepQuality: 0, EnergyLevel: 0, MuscleSoreness: 14,
		PumpQuality: 0, PerceivedEffort: 14,
	}

	if _, err := newTestPipeline(store).ProcessSessionCompletion(context.Background(), sid, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := store.landmarks[0]
	if l.RecoveryLevel < 1 || l.RecoveryLevel > 10 {
		t.Errorf("recovery = %d, out of [1,10]", l.RecoveryLevel)
	}
	if l.AdaptationLevel < 1 || l.AdaptationLevel > 10 {
		t.Errorf("adaptation = %d, out of [1,10]", l.AdaptationLevel)
	}
}

// TestIncompletePerformanceSkipped verifies that performances missing reps or
// weight contribute no progression record and no volume.
func TestIncompletePerformanceSkipped(t *testing.T) {
	store := newFakeStore()
	store.mappings[7] = []models.ExerciseMuscleMapping{{ExerciseID: 7, MuscleGroupID: 3, Contribution: 1.0}}

	sid := store.addSession(1, thursday)
	store.addPerf(sid, 7, 3, "", 100, nil) // no reps logged
	store.addPerf(sid, 7, 3, "8,8,8", 0, nil)

	res, err := newTestPipeline(store).ProcessSessionCompletion(context.Background(), sid, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PerformancesTracked != 0 {
		t.Errorf("performances tracked = %d, want 0", res.PerformancesTracked)
	}
	if len(store.weekly) != 0 {
		t.Errorf("weekly records = %d, want 0", len(store.weekly))
	}
}

// TestSessionNotFound verifies the ErrNotFound path for an unknown session
// and for a session owned by another user.
func TestSessionNotFound(t *testing.T) {
	store := newFakeStore()
	p := newTestPipeline(store)

	if _, err := p.ProcessSessionCompletion(context.Background(), uuid.New(), 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown session: err = %v, want ErrNotFound", err)
	}

	sid := store.addSession(2, thursday)
	if _, err := p.ProcessSessionCompletion(context.Background(), sid, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign session: err = %v, want ErrNotFound", err)
	}
}

// TestStoreErrorWrapped verifies that storage failures surface as StoreError
// for the caller to retry.
func TestStoreErrorWrapped(t *testing.T) {
	store := newFakeStore()
	store.perfsErr = errors.New("connection reset")
	sid := store.addSession(1, thursday)

	_, err := newTestPipeline(store).ProcessSessionCompletion(context.Background(), sid, 1)
	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StoreError", err)
	}
	if se.Op != "list performances" {
		t.Errorf("op = %q, want %q", se.Op, "list performances")
	}
}
