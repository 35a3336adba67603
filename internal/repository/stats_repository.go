package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Oggm2/registroServicio/internal/model"
)

// Aggregate row shapes for the dashboard. JSON tags match the payload the
// frontend charts consume.

// SlotCount counts attendance records per chosen time slot.
type SlotCount struct {
	Slot  string `json:"horario"`
	Total int64  `json:"total"`
}

// PeriodOccupancy sums capacity against enrollments per period. Percent is
// derived by the stats service.
type PeriodOccupancy struct {
	Period        string  `json:"periodo"`
	CapacityTotal int64   `json:"cupo_total"`
	Enrolled      int64   `json:"inscritos"`
	Percent       float64 `json:"porcentaje" gorm:"-"`
}

// TopServiceRow is a most-requested service with its enrollment count.
type TopServiceRow struct {
	Description string `json:"descripcion"`
	MaxCapacity int    `json:"cupo_maximo"`
	Enrolled    int64  `json:"inscritos"`
}

// AvailabilityRow lists per-service remaining seats. Available may go
// negative for over-enrolled services; it is reported as-is.
type AvailabilityRow struct {
	ID          uint   `json:"id"`
	Description string `json:"descripcion"`
	CRN         string `json:"crn"`
	MaxCapacity int    `json:"cupo_maximo"`
	Enrolled    int64  `json:"inscritos"`
	Available   int64  `json:"disponibles" gorm:"-"`
}

// PartnerCount totals enrollments per sponsoring partner.
type PartnerCount struct {
	Partner string `json:"socio_formador"`
	Total   int64  `json:"total"`
}

// CareerCount totals enrollments per academic program.
type CareerCount struct {
	Code  string `json:"carrera"`
	Name  string `json:"nombre"`
	Total int64  `json:"total"`
}

// DailyCount is one point of the daily enrollment trend.
type DailyCount struct {
	Date  string `json:"fecha"`
	Total int64  `json:"total"`
}

// StatusCount counts attendance records per status value.
type StatusCount struct {
	Status string `json:"estatus"`
	Total  int64  `json:"total"`
}

// StudentReportRow is one line of the students export.
type StudentReportRow struct {
	FullName  string
	Matricula string
	Career    string
	Phone     string
	AltEmail  string
}

// StatsRepository runs the read-only aggregation queries behind the
// dashboard and the exports.
type StatsRepository interface {
	TotalStudents(ctx context.Context) (int64, error)
	TotalEnrollments(ctx context.Context) (int64, error)
	TotalServices(ctx context.Context) (int64, error)
	AttendanceBySlot(ctx context.Context) ([]SlotCount, error)
	OccupancyByPeriod(ctx context.Context, period string) ([]PeriodOccupancy, error)
	TopServices(ctx context.Context, period string, limit int) ([]TopServiceRow, error)
	Availability(ctx context.Context, period string) ([]AvailabilityRow, error)
	EnrollmentsByPartner(ctx context.Context, period string) ([]PartnerCount, error)
	EnrollmentsByCareer(ctx context.Context) ([]CareerCount, error)
	EnrollmentTrend(ctx context.Context) ([]DailyCount, error)
	AttendanceStatusDistribution(ctx context.Context) ([]StatusCount, error)
	StudentReport(ctx context.Context) ([]StudentReportRow, error)
	EnrollmentReport(ctx context.Context) ([]EnrollmentRow, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) TotalStudents(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Student{}).Count(&count).Error
	return count, err
}

func (r *statsRepository) TotalEnrollments(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Enrollment{}).Count(&count).Error
	return count, err
}

func (r *statsRepository) TotalServices(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Service{}).Count(&count).Error
	return count, err
}

func (r *statsRepository) AttendanceBySlot(ctx context.Context) ([]SlotCount, error) {
	var rows []SlotCount
	err := r.db.WithContext(ctx).Table("asistencias_feria").
		Select("time_slot AS slot, COUNT(id) AS total").
		Group("time_slot").
		Find(&rows).Error
	return rows, err
}

func (r *statsRepository) OccupancyByPeriod(ctx context.Context, period string) ([]PeriodOccupancy, error) {
	// pre-aggregate enrollments so the join cannot fan out service rows
	// and inflate the capacity sum
	query := r.db.WithContext(ctx).Table("servicios s").
		Select(`s.period AS period, SUM(s.max_capacity) AS capacity_total,
			COALESCE(SUM(p.cnt), 0) AS enrolled`).
		Joins(`LEFT JOIN (
			SELECT service_id, COUNT(*) AS cnt FROM preregistros GROUP BY service_id
		) p ON p.service_id = s.id`).
		Group("s.period").
		Order("s.period")
	if period != "" {
		query = query.Where("s.period = ?", period)
	}

	var rows []PeriodOccupancy
	err := query.Find(&rows).Error
	return rows, err
}

func (r *statsRepository) TopServices(ctx context.Context, period string, limit int) ([]TopServiceRow, error) {
	query := r.db.WithContext(ctx).Table("servicios s").
		Select("s.description AS description, s.max_capacity AS max_capacity, COUNT(p.id) AS enrolled").
		Joins("LEFT JOIN preregistros p ON p.service_id = s.id").
		Group("s.id, s.description, s.max_capacity").
		Order("COUNT(p.id) DESC").
		Limit(limit)
	if period != "" {
		query = query.Where("s.period = ?", period)
	}

	var rows []TopServiceRow
	err := query.Find(&rows).Error
	return rows, err
}

func (r *statsRepository) Availability(ctx context.Context, period string) ([]AvailabilityRow, error) {
	query := r.db.WithContext(ctx).Table("servicios s").
		Select(`s.id AS id, s.description AS description, s.crn AS crn,
			s.max_capacity AS max_capacity, COUNT(p.id) AS enrolled`).
		Joins("LEFT JOIN preregistros p ON p.service_id = s.id").
		Group("s.id, s.description, s.crn, s.max_capacity")
	if period != "" {
		query = query.Where("s.period = ?", period)
	}

	var rows []AvailabilityRow
	err := query.Find(&rows).Error
	return rows, err
}

func (r *statsRepository) EnrollmentsByPartner(ctx context.Context, period string) ([]PartnerCount, error) {
	query := r.db.WithContext(ctx).Table("socios_formadores sf").
		Select("sf.name AS partner, COUNT(p.id) AS total").
		Joins("JOIN servicios s ON s.partner_id = sf.id").
		Joins("JOIN preregistros p ON p.service_id = s.id").
		Group("sf.name").
		Order("COUNT(p.id) DESC")
	if period != "" {
		query = query.Where("s.period = ?", period)
	}

	var rows []PartnerCount
	err := query.Find(&rows).Error
	return rows, err
}

func (r *statsRepository) EnrollmentsByCareer(ctx context.Context) ([]CareerCount, error) {
	var rows []CareerCount
	err := r.db.WithContext(ctx).Table("carreras c").
		Select("c.code AS code, c.name AS name, COUNT(p.id) AS total").
		Joins("JOIN estudiantes e ON e.career_id = c.id").
		Joins("JOIN preregistros p ON p.student_id = e.id").
		Group("c.id, c.code, c.name").
		Order("COUNT(p.id) DESC").
		Find(&rows).Error
	return rows, err
}

func (r *statsRepository) EnrollmentTrend(ctx context.Context) ([]DailyCount, error) {
	var rows []DailyCount
	// CAST keeps the bucket a plain string on both MySQL and sqlite
	err := r.db.WithContext(ctx).Table("preregistros").
		Select("CAST(DATE(registered_at) AS CHAR) AS date, COUNT(id) AS total").
		Group("DATE(registered_at)").
		Order("DATE(registered_at)").
		Find(&rows).Error
	return rows, err
}

func (r *statsRepository) AttendanceStatusDistribution(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Table("asistencias_feria").
		Select("status AS status, COUNT(id) AS total").
		Group("status").
		Find(&rows).Error
	return rows, err
}

func (r *statsRepository) StudentReport(ctx context.Context) ([]StudentReportRow, error) {
	var rows []StudentReportRow
	err := r.db.WithContext(ctx).Table("estudiantes e").
		Select(`e.full_name AS full_name, e.matricula AS matricula,
			c.name AS career, COALESCE(e.phone, '') AS phone,
			COALESCE(e.alt_email, '') AS alt_email`).
		Joins("JOIN carreras c ON c.id = e.career_id").
		Order("e.full_name").
		Find(&rows).Error
	return rows, err
}

func (r *statsRepository) EnrollmentReport(ctx context.Context) ([]EnrollmentRow, error) {
	var rows []EnrollmentRow
	err := r.db.WithContext(ctx).Table("preregistros p").
		Select(`p.id AS id, e.full_name AS student_name, e.matricula AS matricula,
			c.name AS career, s.crn AS crn, s.description AS service_description,
			s.period AS period, p.registered_at AS registered_at`).
		Joins("JOIN estudiantes e ON e.id = p.student_id").
		Joins("JOIN servicios s ON s.id = p.service_id").
		Joins("JOIN carreras c ON c.id = e.career_id").
		Order("p.registered_at DESC").
		Find(&rows).Error
	return rows, err
}
