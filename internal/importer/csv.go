package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/claude/trainload/internal/models"
	"github.com/google/uuid"
)

// CSV exports carry one row per performed set. Columns are matched by
// header name, case-insensitive; order does not matter. Required:
// date, exercise. Recognized: session, reps, weight_kg, rir, warmup,
// pump, soreness, trend, sleep, food, stress, soreness_readiness.
type csvColumns struct {
	date     int
	session  int
	exercise int
	reps     int
	weight   int
	rir      int
	warmup   int
	pump     int
	soreness int
	trend    int
	sleep    int
	food     int
	stress   int
	fresh    int
}

func mapColumns(header []string) (csvColumns, error) {
	cols := csvColumns{
		date: -1, session: -1, exercise: -1, reps: -1, weight: -1,
		rir: -1, warmup: -1, pump: -1, soreness: -1, trend: -1,
		sleep: -1, food: -1, stress: -1, fresh: -1,
	}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			cols.date = i
		case "session", "session_name", "workout":
			cols.session = i
		case "exercise", "exercise_name":
			cols.exercise = i
		case "reps":
			cols.reps = i
		case "weight", "weight_kg":
			cols.weight = i
		case "rir":
			cols.rir = i
		case "warmup", "is_warmup":
			cols.warmup = i
		case "pump", "pump_quality":
			cols.pump = i
		case "soreness", "soreness_24h":
			cols.soreness = i
		case "trend", "performance_trend":
			cols.trend = i
		case "sleep":
			cols.sleep = i
		case "food":
			cols.food = i
		case "stress":
			cols.stress = i
		case "soreness_readiness":
			cols.fresh = i
		}
	}
	if cols.date < 0 || cols.exercise < 0 {
		return cols, fmt.Errorf("csv header must contain date and exercise columns")
	}
	return cols, nil
}

// setRow is one parsed CSV line.
type setRow struct {
	date     time.Time
	session  string
	exercise string
	set      models.CompletedSet
	hasSet   bool
	warmup   bool
	feedback models.RawFeedback
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func parseRow(cols csvColumns, rec []string) (setRow, error) {
	get := func(i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	intAt := func(i int) *int {
		s := get(i)
		if s == "" {
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		return &v
	}

	date, err := parseDate(get(cols.date))
	if err != nil {
		return setRow{}, fmt.Errorf("bad date %q: %w", get(cols.date), err)
	}

	row := setRow{
		date:     date,
		session:  get(cols.session),
		exercise: get(cols.exercise),
	}
	if row.exercise == "" {
		return setRow{}, fmt.Errorf("empty exercise name")
	}

	if reps := intAt(cols.reps); reps != nil {
		row.set.Reps = *reps
		row.hasSet = true
	}
	if w := get(cols.weight); w != "" {
		if v, err := strconv.ParseFloat(w, 64); err == nil {
			row.set.Weight = v
			row.hasSet = true
		}
	}
	if r := get(cols.rir); r != "" {
		if v, err := strconv.ParseFloat(r, 64); err == nil {
			row.set.RIR = v
		}
	}
	switch strings.ToLower(get(cols.warmup)) {
	case "1", "true", "yes", "y":
		row.warmup = true
	}

	row.feedback = models.RawFeedback{
		PumpQuality: intAt(cols.pump),
		Soreness24h: intAt(cols.soreness),
	}
	if trend := get(cols.trend); trend != "" {
		row.feedback.PerformanceTrend = trend
	}
	if sleep := intAt(cols.sleep); sleep != nil {
		r := models.Readiness{Sleep: *sleep}
		if v := intAt(cols.food); v != nil {
			r.Food = *v
		}
		if v := intAt(cols.stress); v != nil {
			r.Stress = *v
		}
		if v := intAt(cols.fresh); v != nil {
			r.Soreness = *v
		}
		row.feedback.Readiness = &r
	}
	return row, nil
}

// ParseCSV reads a set-per-row export and groups rows into workout logs,
// one per (date, session), oldest first. Log IDs are derived from the
// user, date, and session so re-importing the same file produces the
// same IDs and the append-only store drops the duplicates.
func ParseCSV(r io.Reader, userID int) ([]models.WorkoutLog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	type logKey struct {
		day     string
		session string
	}
	grouped := map[logKey]*models.WorkoutLog{}
	feedback := map[logKey]models.RawFeedback{}

	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}

		row, err := parseRow(cols, rec)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}

		key := logKey{day: row.date.Format("2006-01-02"), session: row.session}
		log, ok := grouped[key]
		if !ok {
			log = &models.WorkoutLog{
				ID:      logID(userID, key.day, key.session),
				UserID:  userID,
				Date:    row.date,
				Session: row.session,
			}
			grouped[key] = log
		}

		// Feedback columns repeat on every row of a session; the last
		// non-empty value wins.
		feedback[key] = mergeFeedback(feedback[key], row.feedback)
		addSet(log, row)
	}

	logs := make([]models.WorkoutLog, 0, len(grouped))
	for key, log := range grouped {
		log.Feedback = models.NormalizeFeedback(feedback[key])
		logs = append(logs, *log)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date.Before(logs[j].Date) })
	return logs, nil
}

// logID derives a stable UUID from the import identity so duplicate
// imports collide on the primary key.
func logID(userID int, day, session string) uuid.UUID {
	name := fmt.Sprintf("trainload/%d/%s/%s", userID, day, session)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name))
}

func addSet(log *models.WorkoutLog, row setRow) {
	for i := range log.Exercises {
		if log.Exercises[i].Name == row.exercise && log.Exercises[i].IsWarmup == row.warmup {
			if row.hasSet {
				log.Exercises[i].Sets = append(log.Exercises[i].Sets, row.set)
			} else {
				log.Exercises[i].DeclaredSets++
			}
			return
		}
	}
	ex := models.CompletedExercise{Name: row.exercise, IsWarmup: row.warmup}
	if row.hasSet {
		ex.Sets = []models.CompletedSet{row.set}
	} else {
		ex.DeclaredSets = 1
	}
	log.Exercises = append(log.Exercises, ex)
}

func mergeFeedback(cur, fb models.RawFeedback) models.RawFeedback {
	if fb.PumpQuality != nil {
		cur.PumpQuality = fb.PumpQuality
	}
	if fb.Soreness24h != nil {
		cur.Soreness24h = fb.Soreness24h
	}
	if fb.PerformanceTrend != "" {
		cur.PerformanceTrend = fb.PerformanceTrend
	}
	if fb.Readiness != nil {
		cur.Readiness = fb.Readiness
	}
	return cur
}
