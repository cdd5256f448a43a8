package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"clindb/internal/apperr"
	"clindb/internal/audit"
	"clindb/internal/validate"
)

// timestampLayout matches strftime('%Y-%m-%d %H:%M:%f') used by the schema.
const timestampLayout = "2006-01-02 15:04:05.000"

// Appointment is one clinical visit record, the central entity of the store.
type Appointment struct {
	ID            int64
	Company       string
	PatientName   string
	Modality      validate.Modality
	Date          string // canonical DD/MM/YYYY
	Time          string // 24-hour HH:MM
	ReportPDF     *string
	EvaluationPDF *string
	Status        validate.Status
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewAppointment carries the caller-supplied fields of an insert.
// Status always starts as Agendado.
type NewAppointment struct {
	Company       string
	PatientName   string
	Modality      string
	Date          string
	Time          string
	ReportPDF     *string
	EvaluationPDF *string
	Notes         string
}

// Patch names the fields an update may touch. Nil fields keep their prior
// value; the struct itself is the allow-list.
type Patch struct {
	Company       *string
	PatientName   *string
	Modality      *string
	Date          *string
	Time          *string
	ReportPDF     *string
	EvaluationPDF *string
	Status        *string
	Notes         *string
}

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Company  string // substring match
	Patient  string // substring match
	Modality string // exact match
	Date     string // exact match on the canonical form
}

// AppointmentRepository provides the CRUD surface over the appointments
// table. Every mutating operation sanitizes and validates its input before
// touching the store and reports the action to the audit logger.
type AppointmentRepository struct {
	db       *DB
	audit    *audit.Logger
	maxText  int
	maxNotes int
}

// NewAppointmentRepository creates a repository bound to db.
// auditor may be nil, in which case actions are only recorded in the
// audit_events table.
func NewAppointmentRepository(db *DB, auditor *audit.Logger, maxText, maxNotes int) *AppointmentRepository {
	if maxText <= 0 {
		maxText = validate.DefaultMaxTextLength
	}
	if maxNotes <= 0 {
		maxNotes = maxText
	}
	return &AppointmentRepository{db: db, audit: auditor, maxText: maxText, maxNotes: maxNotes}
}

// Insert validates and stores a new appointment, returning its id.
// The referenced company is registered on first use and never overwritten.
func (r *AppointmentRepository) Insert(na NewAppointment) (int64, error) {
	company := validate.SanitizeText(na.Company, r.maxText)
	patient := validate.SanitizeText(na.PatientName, r.maxText)
	notes := validate.SanitizeText(na.Notes, r.maxNotes)

	if company == "" {
		return 0, apperr.New(apperr.InvalidValue, "company must not be empty")
	}
	if patient == "" {
		return 0, apperr.New(apperr.InvalidValue, "patient name must not be empty")
	}

	date := validate.NormalizeDate(na.Date)
	if !validate.ValidDate(date) {
		return 0, apperr.New(apperr.InvalidFormat, fmt.Sprintf("invalid date %q, want DD/MM/YYYY", na.Date))
	}
	if !validate.ValidTime(na.Time) {
		return 0, apperr.New(apperr.InvalidFormat, fmt.Sprintf("invalid time %q, want HH:MM", na.Time))
	}
	modality, err := validate.ParseModality(na.Modality)
	if err != nil {
		return 0, apperr.Wrap(apperr.InvalidValue, "modality rejected", err)
	}

	var id int64
	err = r.db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO companies (name) VALUES (?)`, company); err != nil {
			return classify("register company", err)
		}

		res, err := tx.Exec(`
			INSERT INTO appointments (company, patient_name, modality, date, time, report_pdf, evaluation_pdf, status, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, company, patient, string(modality), date, na.Time, na.ReportPDF, na.EvaluationPDF, string(validate.StatusAgendado), notes)
		if err != nil {
			return classify("insert appointment", err)
		}

		id, err = res.LastInsertId()
		if err != nil {
			return classify("insert appointment", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logAction("ADD_APPOINTMENT", fmt.Sprintf("id=%d company=%s patient=%s", id, company, patient))
	return id, nil
}

// listOrder returns rows newest-first by calendar date, then by time.
// Dates are stored as DD/MM/YYYY text, so the sort key is the YYYY-MM-DD
// rearrangement; rows whose date doesn't match the canonical shape get an
// empty key and land after every valid date.
const listOrder = `
	ORDER BY (
		CASE
			WHEN date LIKE '__/__/____'
				THEN substr(date, 7, 4) || '-' || substr(date, 4, 2) || '-' || substr(date, 1, 2)
			ELSE ''
		END
	) DESC,
	time DESC
`

// List returns appointments matching f, newest first.
func (r *AppointmentRepository) List(f Filter) ([]Appointment, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.Company != "" {
		where = append(where, "company LIKE '%' || ? || '%'")
		args = append(args, f.Company)
	}
	if f.Patient != "" {
		where = append(where, "patient_name LIKE '%' || ? || '%'")
		args = append(args, f.Patient)
	}
	if f.Modality != "" {
		where = append(where, "modality = ?")
		args = append(args, f.Modality)
	}
	if f.Date != "" {
		where = append(where, "date = ?")
		args = append(args, validate.NormalizeDate(f.Date))
	}

	query := `
		SELECT id, company, patient_name, modality, date, time, report_pdf, evaluation_pdf, status, notes, created_at, updated_at
		FROM appointments
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += listOrder

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, classify("list appointments", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list appointments", err)
	}
	return out, nil
}

// Get retrieves one appointment by id, or nil when it doesn't exist.
func (r *AppointmentRepository) Get(id int64) (*Appointment, error) {
	row := r.db.QueryRow(`
		SELECT id, company, patient_name, modality, date, time, report_pdf, evaluation_pdf, status, notes, created_at, updated_at
		FROM appointments
		WHERE id = ?
	`, id)

	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Update applies the non-nil fields of p to the appointment with the given
// id and refreshes updated_at. It returns false when the id doesn't exist
// or the patch is empty; neither case is an error.
func (r *AppointmentRepository) Update(id int64, p Patch) (bool, error) {
	var (
		sets []string
		args []interface{}
	)
	set := func(column string, v interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, v)
	}

	if p.Company != nil {
		company := validate.SanitizeText(*p.Company, r.maxText)
		if company == "" {
			return false, apperr.New(apperr.InvalidValue, "company must not be empty")
		}
		set("company", company)
	}
	if p.PatientName != nil {
		patient := validate.SanitizeText(*p.PatientName, r.maxText)
		if patient == "" {
			return false, apperr.New(apperr.InvalidValue, "patient name must not be empty")
		}
		set("patient_name", patient)
	}
	if p.Modality != nil {
		modality, err := validate.ParseModality(*p.Modality)
		if err != nil {
			return false, apperr.Wrap(apperr.InvalidValue, "modality rejected", err)
		}
		set("modality", string(modality))
	}
	if p.Date != nil {
		date := validate.NormalizeDate(*p.Date)
		if !validate.ValidDate(date) {
			return false, apperr.New(apperr.InvalidFormat, fmt.Sprintf("invalid date %q, want DD/MM/YYYY", *p.Date))
		}
		set("date", date)
	}
	if p.Time != nil {
		if !validate.ValidTime(*p.Time) {
			return false, apperr.New(apperr.InvalidFormat, fmt.Sprintf("invalid time %q, want HH:MM", *p.Time))
		}
		set("time", *p.Time)
	}
	if p.ReportPDF != nil {
		set("report_pdf", *p.ReportPDF)
	}
	if p.EvaluationPDF != nil {
		set("evaluation_pdf", *p.EvaluationPDF)
	}
	if p.Status != nil {
		status, err := validate.ParseStatus(*p.Status)
		if err != nil {
			return false, apperr.Wrap(apperr.InvalidValue, "status rejected", err)
		}
		set("status", string(status))
	}
	if p.Notes != nil {
		set("notes", validate.SanitizeText(*p.Notes, r.maxNotes))
	}

	if len(sets) == 0 {
		return false, nil
	}

	args = append(args, id)
	res, err := r.db.Exec(
		"UPDATE appointments SET "+strings.Join(sets, ", ")+", updated_at = strftime('%Y-%m-%d %H:%M:%f', 'now') WHERE id = ?",
		args...,
	)
	if err != nil {
		return false, classify("update appointment", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, classify("update appointment", err)
	}

	r.logAction("UPDATE_APPOINTMENT", fmt.Sprintf("id=%d fields=%d", id, len(sets)))
	return affected > 0, nil
}

// Delete removes the appointment with the given id. It returns false when
// the id doesn't exist. Ids are never reused afterwards.
func (r *AppointmentRepository) Delete(id int64) (bool, error) {
	res, err := r.db.Exec("DELETE FROM appointments WHERE id = ?", id)
	if err != nil {
		return false, classify("delete appointment", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, classify("delete appointment", err)
	}

	r.logAction("DELETE_APPOINTMENT", fmt.Sprintf("id=%d", id))
	return affected > 0, nil
}

// Companies returns the registered company names in alphabetical order.
func (r *AppointmentRepository) Companies() ([]string, error) {
	rows, err := r.db.Query("SELECT name FROM companies ORDER BY name")
	if err != nil {
		return nil, classify("list companies", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, classify("list companies", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list companies", err)
	}
	return out, nil
}

// logAction records the mutation in the file log and the audit_events
// table. Both are advisory: failures never abort the primary operation.
func (r *AppointmentRepository) logAction(action, details string) {
	r.audit.LogAccess(action, details)

	if _, err := r.db.Exec(
		"INSERT INTO audit_events (id, action, details) VALUES (?, ?, ?)",
		audit.NewEventID(), action, details,
	); err != nil {
		r.db.logger.Debug("audit event insert failed", "action", action, "error", err)
	}
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(s scanner) (Appointment, error) {
	var (
		a          Appointment
		modality   string
		status     string
		report     sql.NullString
		evaluation sql.NullString
		notes      sql.NullString
		createdAt  string
		updatedAt  string
	)

	err := s.Scan(&a.ID, &a.Company, &a.PatientName, &modality, &a.Date, &a.Time,
		&report, &evaluation, &status, &notes, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return a, err
	}
	if err != nil {
		return a, classify("scan appointment", err)
	}

	a.Modality = validate.Modality(modality)
	a.Status = validate.Status(status)
	if report.Valid {
		a.ReportPDF = &report.String
	}
	if evaluation.Valid {
		a.EvaluationPDF = &evaluation.String
	}
	if notes.Valid {
		a.Notes = notes.String
	}
	a.CreatedAt = parseTimestamp(createdAt)
	a.UpdatedAt = parseTimestamp(updatedAt)
	return a, nil
}

// parseTimestamp reads store-written timestamps. Rows written by other
// tools may carry plain second precision; fall back rather than fail a read.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{timestampLayout, "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
