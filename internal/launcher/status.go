package launcher

import (
	"weatherstack/internal/models"
	"weatherstack/internal/platform"
)

// ObserveStatus reports the current runtime state of a configured service:
// pid-file liveness for process services, manager state for unit services.
// It never blocks on the service itself.
func ObserveStatus(spec models.ServiceSpec, units platform.Manager) models.Service {
	svc := models.Service{
		Name:        spec.Name,
		DisplayName: spec.Display(),
		Status:      models.StatusUnknown,
		Port:        spec.Port,
		Unit:        spec.Unit,
	}

	switch spec.Kind() {
	case models.StrategyUnit:
		if units == nil {
			return svc
		}
		if units.IsActive(spec.Unit) {
			svc.Status = models.StatusRunning
		} else {
			svc.Status = models.StatusStopped
		}
		svc.Enabled = units.IsEnabled(spec.Unit)

	default:
		pidPath := PIDFilePath(spec)
		if pidPath == "" {
			return svc
		}
		pid, err := ReadPIDFile(pidPath)
		if err != nil {
			// Never launched here, or the pid file was cleaned up.
			svc.Status = models.StatusStopped
			return svc
		}
		if PIDAlive(pid) {
			svc.Status = models.StatusRunning
			svc.PID = pid
		} else {
			// A pid file without a live process means the service died.
			svc.Status = models.StatusFailed
		}
	}
	return svc
}
