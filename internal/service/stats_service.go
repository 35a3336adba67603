package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/Oggm2/registroServicio/internal/cache"
	"github.com/Oggm2/registroServicio/internal/model"
	"github.com/Oggm2/registroServicio/internal/repository"
)

const (
	// statsCachePrefix namespaces cached dashboard payloads. Writes to
	// enrollments, attendance or the catalog sweep the whole prefix.
	statsCachePrefix = "stats:dashboard:"

	statsCacheTTL = 5 * time.Minute

	topServicesLimit = 10
)

// Dashboard is the full statistics bundle the admin dashboard renders.
type Dashboard struct {
	TotalStudents    int64 `json:"total_registrados"`
	TotalAttendance  int64 `json:"total_asistencias_feria"`
	TotalEnrollments int64 `json:"total_preregistros"`
	ActiveServices   int64 `json:"servicios_activos"`

	AttendanceBySlot  []repository.SlotCount       `json:"asistencias_por_horario"`
	OccupancyByPeriod []repository.PeriodOccupancy `json:"ocupacion_por_periodo"`
	CurrentlyInside   int64                        `json:"asistentes_dentro"`
	TopServices       []repository.TopServiceRow   `json:"proyectos_mas_solicitados"`
	Availability      []repository.AvailabilityRow `json:"cupos_disponibles"`
	ByPartner         []repository.PartnerCount    `json:"inscritos_por_socio_formador"`
	NoShowRate        float64                      `json:"tasa_no_asistencia"`
	NoShows           int64                        `json:"no_asistieron"`
	ByCareer          []repository.CareerCount     `json:"preregistros_por_carrera"`
	EnrollmentTrend   []repository.DailyCount      `json:"tendencia_inscripciones"`
	StatusBreakdown   []repository.StatusCount     `json:"estatus_distribucion"`
	Periods           []string                     `json:"periodos_disponibles"`
}

// StatsService assembles the reporting dashboard and the exportable reports.
type StatsService interface {
	Dashboard(ctx context.Context, period string) (*Dashboard, error)
	StudentReportRows(ctx context.Context) ([]string, [][]string, error)
	EnrollmentReportRows(ctx context.Context) ([]string, [][]string, error)
}

type statsService struct {
	statsRepo      repository.StatsRepository
	serviceRepo    repository.ServiceRepository
	attendanceRepo repository.AttendanceRepository
	cache          *cache.Client
}

// NewStatsService creates a new stats service.
func NewStatsService(
	statsRepo repository.StatsRepository,
	serviceRepo repository.ServiceRepository,
	attendanceRepo repository.AttendanceRepository,
	cache *cache.Client,
) StatsService {
	return &statsService{
		statsRepo:      statsRepo,
		serviceRepo:    serviceRepo,
		attendanceRepo: attendanceRepo,
		cache:          cache,
	}
}

// Dashboard assembles the statistics bundle, cached per period filter.
func (s *statsService) Dashboard(ctx context.Context, period string) (*Dashboard, error) {
	cacheKey := statsCachePrefix + period

	if data, _ := s.cache.Get(ctx, cacheKey); data != nil {
		var cached Dashboard
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	dashboard, err := s.buildDashboard(ctx, period)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(dashboard); err == nil {
		_ = s.cache.Set(ctx, cacheKey, data, statsCacheTTL)
	}
	return dashboard, nil
}

func (s *statsService) buildDashboard(ctx context.Context, period string) (*Dashboard, error) {
	d := &Dashboard{}
	var err error

	if d.TotalStudents, err = s.statsRepo.TotalStudents(ctx); err != nil {
		return nil, err
	}
	if d.TotalAttendance, err = s.attendanceRepo.Count(ctx); err != nil {
		return nil, err
	}
	if d.TotalEnrollments, err = s.statsRepo.TotalEnrollments(ctx); err != nil {
		return nil, err
	}
	if d.ActiveServices, err = s.statsRepo.TotalServices(ctx); err != nil {
		return nil, err
	}
	if d.AttendanceBySlot, err = s.statsRepo.AttendanceBySlot(ctx); err != nil {
		return nil, err
	}

	if d.OccupancyByPeriod, err = s.statsRepo.OccupancyByPeriod(ctx, period); err != nil {
		return nil, err
	}
	for i := range d.OccupancyByPeriod {
		row := &d.OccupancyByPeriod[i]
		if row.CapacityTotal > 0 {
			row.Percent = round1(float64(row.Enrolled) / float64(row.CapacityTotal) * 100)
		}
	}

	if d.CurrentlyInside, err = s.attendanceRepo.CountByStatus(ctx, model.AttendanceInside); err != nil {
		return nil, err
	}
	if d.TopServices, err = s.statsRepo.TopServices(ctx, period, topServicesLimit); err != nil {
		return nil, err
	}

	if d.Availability, err = s.statsRepo.Availability(ctx, period); err != nil {
		return nil, err
	}
	for i := range d.Availability {
		row := &d.Availability[i]
		// negative means over-enrolled; reported as-is
		row.Available = int64(row.MaxCapacity) - row.Enrolled
	}

	if d.ByPartner, err = s.statsRepo.EnrollmentsByPartner(ctx, period); err != nil {
		return nil, err
	}

	if d.NoShows, err = s.attendanceRepo.CountByStatus(ctx, model.AttendanceNoShow); err != nil {
		return nil, err
	}
	if d.TotalAttendance > 0 {
		d.NoShowRate = round1(float64(d.NoShows) / float64(d.TotalAttendance) * 100)
	}

	if d.ByCareer, err = s.statsRepo.EnrollmentsByCareer(ctx); err != nil {
		return nil, err
	}
	if d.EnrollmentTrend, err = s.statsRepo.EnrollmentTrend(ctx); err != nil {
		return nil, err
	}
	if d.StatusBreakdown, err = s.statsRepo.AttendanceStatusDistribution(ctx); err != nil {
		return nil, err
	}
	if d.Periods, err = s.serviceRepo.DistinctPeriods(ctx); err != nil {
		return nil, err
	}

	return d, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// StudentReportRows returns the header and rows of the students export.
func (s *statsService) StudentReportRows(ctx context.Context) ([]string, [][]string, error) {
	header := []string{"Nombre", "Matrícula", "Carrera", "Celular", "Correo Alterno"}

	students, err := s.statsRepo.StudentReport(ctx)
	if err != nil {
		return nil, nil, err
	}

	rows := make([][]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, []string{st.FullName, st.Matricula, st.Career, st.Phone, st.AltEmail})
	}
	return header, rows, nil
}

// EnrollmentReportRows returns the header and rows of the enrollments export.
func (s *statsService) EnrollmentReportRows(ctx context.Context) ([]string, [][]string, error) {
	header := []string{"Nombre", "Matrícula", "Carrera", "CRN", "Servicio", "Periodo", "Fecha Registro"}

	enrollments, err := s.statsRepo.EnrollmentReport(ctx)
	if err != nil {
		return nil, nil, err
	}

	rows := make([][]string, 0, len(enrollments))
	for _, e := range enrollments {
		rows = append(rows, []string{
			e.StudentName,
			e.Matricula,
			e.Career,
			e.CRN,
			e.ServiceDescription,
			e.Period,
			e.RegisteredAt.Format("2006-01-02 15:04"),
		})
	}
	return header, rows, nil
}
