package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/study-planner/internal/application"
	"github.com/example/study-planner/internal/persistence"
	"github.com/example/study-planner/internal/persistence/memory"
	"github.com/example/study-planner/internal/recurrence"
	"github.com/example/study-planner/internal/state"
)

// ServiceFactory assists tests with constructing application services that share one
// AppState, deterministic identifiers and a controllable clock.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Store       persistence.Store
	State       *state.AppState
	Location    *time.Location
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory backed by an in-memory store.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
		Location:    time.UTC,
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	if factory.Store == nil {
		factory.Store = memory.New()
	}
	if factory.Location == nil {
		factory.Location = time.UTC
	}
	factory.State = state.New(factory.Store)
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithStore backs the factory's state with store instead of a fresh memory store.
func WithStore(store persistence.Store) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Store = store
	}
}

// WithLocation sets the zone the dashboard engine and the clock readings use.
func WithLocation(loc *time.Location) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Location = loc
	}
}

// WithLogger sets the logger handed to every service.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// Now returns the factory clock reading in the factory location.
func (f *ServiceFactory) Now() time.Time {
	return f.Clock.Now().In(f.Location)
}

// NewTimetableService builds a timetable service over the shared state.
func (f *ServiceFactory) NewTimetableService() *application.TimetableService {
	return application.NewTimetableServiceWithLogger(f.State, f.IDGenerator.NextFunc(), f.Now, f.Logger)
}

// NewPlannerService builds a planner service over the shared state.
func (f *ServiceFactory) NewPlannerService() *application.PlannerService {
	return application.NewPlannerServiceWithLogger(f.State, f.IDGenerator.NextFunc(), f.Now, f.Logger)
}

// NewProfileService builds a profile service over the shared state.
func (f *ServiceFactory) NewProfileService() *application.ProfileService {
	return application.NewProfileServiceWithLogger(f.State, f.Logger)
}

// NewDashboardService builds a dashboard service whose engine uses the factory location.
func (f *ServiceFactory) NewDashboardService() *application.DashboardService {
	return application.NewDashboardServiceWithLogger(f.State, recurrence.NewEngine(f.Location), f.Now, f.Logger)
}

// NewPlannerScreen builds a planner screen over a new planner service.
func (f *ServiceFactory) NewPlannerScreen() *application.PlannerScreen {
	return application.NewPlannerScreen(f.NewPlannerService(), f.Logger)
}
