package carwash

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	nurl "net/url"
	"strconv"

	"github.com/suchimauz/carwash-schedule-board/internal/config"
	"github.com/suchimauz/carwash-schedule-board/internal/core/domain"
	"github.com/suchimauz/carwash-schedule-board/internal/core/ports/out"
)

// CarwashAdapter - клиент REST-бэкенда мойки. Вся бизнес-логика
// (автораспределение, нумерация счетов, дубликаты) живет на той стороне,
// адаптер только гоняет запросы и раскладывает ответы по доменным типам
type CarwashAdapter struct {
	client   *http.Client
	baseURL  string
	username string
	password string
	session  out.SessionPort
	cfg      *config.Config
	logger   out.LoggerPort
}

func NewCarwashAdapter(cfg *config.Config, session out.SessionPort, logger out.LoggerPort) *CarwashAdapter {
	return &CarwashAdapter{
		// Таймауты задаются контекстом на каждый вызов, у клиента общего нет
		client:   &http.Client{},
		baseURL:  cfg.Backend.URL,
		username: cfg.Backend.Username,
		password: cfg.Backend.Password,
		session:  session,
		cfg:      cfg,
		logger:   logger,
	}
}

// currentScheduleResponse - бэкенд отвечает либо конвертом, либо голым массивом
type currentScheduleResponse struct {
	Success     bool                 `json:"success"`
	Assignments []domain.Appointment `json:"assignments"`
}

func (a *CarwashAdapter) GetCurrentAssignments(ctx context.Context) ([]domain.Appointment, error) {
	a.logger.Info("carwash.schedule.fetch", out.LogFields{})

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Backend.RequestTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/api/schedule/assign/current", a.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	a.authorize(req)

	resp, err := a.client.Do(req)
	if err != nil {
		err = a.mapTimeout(err)
		a.logger.Error("carwash.schedule.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("carwash.schedule.fetch_failed", out.LogFields{
			"status": resp.StatusCode,
		})
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		a.logger.Error("carwash.schedule.decode_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	// Сначала пробуем конверт, потом голый массив
	var envelope currentScheduleResponse
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Assignments != nil {
		a.logger.Debug("carwash.schedule.fetch_success", out.LogFields{
			"count": len(envelope.Assignments),
		})
		return envelope.Assignments, nil
	}

	var assignments []domain.Appointment
	if err := json.Unmarshal(raw, &assignments); err != nil {
		a.logger.Error("carwash.schedule.decode_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("carwash.schedule.fetch_success", out.LogFields{
		"count": len(assignments),
	})

	return assignments, nil
}

type batchUpdateRequest struct {
	Changes []domain.ChangeRecord `json:"changes"`
}

func (a *CarwashAdapter) BatchUpdate(ctx context.Context, changes []domain.ChangeRecord) error {
	a.logger.Info("carwash.batch_update.send", out.LogFields{
		"changesCount": len(changes),
	})

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Backend.RequestTimeout)
	defer cancel()

	body, err := json.Marshal(batchUpdateRequest{Changes: changes})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/schedule/assign/batch-update", a.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	a.authorize(req)

	resp, err := a.client.Do(req)
	if err != nil {
		err = a.mapTimeout(err)
		a.logger.Error("carwash.batch_update.send_failed", out.LogFields{
			"error": err.Error(),
		})
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("carwash.batch_update.send_failed", out.LogFields{
			"status": resp.StatusCode,
		})
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	a.logger.Debug("carwash.batch_update.send_success", out.LogFields{
		"changesCount": len(changes),
	})

	return nil
}

type deleteTaskRequest struct {
	TaskID string `json:"taskId"`
}

func (a *CarwashAdapter) DeleteTask(ctx context.Context, taskID string) error {
	a.logger.Info("carwash.delete_task.send", out.LogFields{
		"taskId": taskID,
	})

	// На удаление таймаут шире, бэкенд пересчитывает расписание
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Backend.DeleteTimeout)
	defer cancel()

	body, err := json.Marshal(deleteTaskRequest{TaskID: taskID})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/schedule/assign/delete-task", a.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	a.authorize(req)

	resp, err := a.client.Do(req)
	if err != nil {
		err = a.mapTimeout(err)
		a.logger.Error("carwash.delete_task.send_failed", out.LogFields{
			"taskId": taskID,
			"error":  err.Error(),
		})
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("carwash.delete_task.send_failed", out.LogFields{
			"taskId": taskID,
			"status": resp.StatusCode,
		})
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

func (a *CarwashAdapter) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	a.logger.Info("carwash.customer.fetch", out.LogFields{
		"customerId": customerID,
	})

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Backend.RequestTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/api/clients/%s", a.baseURL, nurl.PathEscape(customerID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	a.authorize(req)

	resp, err := a.client.Do(req)
	if err != nil {
		err = a.mapTimeout(err)
		a.logger.Error("carwash.customer.fetch_failed", out.LogFields{
			"customerId": customerID,
			"error":      err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("carwash.customer.fetch_failed", out.LogFields{
			"customerId": customerID,
			"status":     resp.StatusCode,
		})
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var customer domain.Customer
	if err := json.NewDecoder(resp.Body).Decode(&customer); err != nil {
		a.logger.Error("carwash.customer.decode_failed", out.LogFields{
			"customerId": customerID,
			"error":      err.Error(),
		})
		return nil, err
	}

	return &customer, nil
}

func (a *CarwashAdapter) GetWashHistory(ctx context.Context, customerID string, limit int) ([]domain.WashHistoryEntry, error) {
	a.logger.Info("carwash.wash_history.fetch", out.LogFields{
		"customerId": customerID,
		"limit":      limit,
	})

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Backend.RequestTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/api/schedule/assign/wash-history/%s", a.baseURL, nurl.PathEscape(customerID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	query := nurl.Values{}
	query.Add("limit", strconv.Itoa(limit))
	req.URL.RawQuery = query.Encode()

	a.authorize(req)

	resp, err := a.client.Do(req)
	if err != nil {
		err = a.mapTimeout(err)
		a.logger.Error("carwash.wash_history.fetch_failed", out.LogFields{
			"customerId": customerID,
			"error":      err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("carwash.wash_history.fetch_failed", out.LogFields{
			"customerId": customerID,
			"status":     resp.StatusCode,
		})
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var history []domain.WashHistoryEntry
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		a.logger.Error("carwash.wash_history.decode_failed", out.LogFields{
			"customerId": customerID,
			"error":      err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("carwash.wash_history.fetch_success", out.LogFields{
		"customerId": customerID,
		"count":      len(history),
	})

	return history, nil
}

// authorize проставляет заголовки аудита из сессии
// и basic auth, если бэкенд его требует
func (a *CarwashAdapter) authorize(req *http.Request) {
	session := a.session.Current()
	req.Header.Set("X-User-ID", session.UserID)
	req.Header.Set("X-User-Name", session.UserName)

	if a.username != "" {
		req.SetBasicAuth(a.username, a.password)
	}
}

func (a *CarwashAdapter) mapTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", out.ErrTimeout, err)
	}
	return err
}
