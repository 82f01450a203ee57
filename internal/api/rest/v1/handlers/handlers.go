// Package handlers provides API endpoint handling functionality.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"strconv"
	"strings"
	"time"

	handlersErrors "github.com/Mohammademon02/income-tracking-api/internal/api/rest/v1/errors"
	"github.com/Mohammademon02/income-tracking-api/internal/config"
	"github.com/Mohammademon02/income-tracking-api/internal/models/modeldto"
	"github.com/Mohammademon02/income-tracking-api/internal/service/processor/v1"
	serviceErrors "github.com/Mohammademon02/income-tracking-api/internal/service/processor/v1/errors"
	targetErrors "github.com/Mohammademon02/income-tracking-api/internal/service/targets/v1/errors"
	storageErrors "github.com/Mohammademon02/income-tracking-api/internal/storage/v1/errors"
	"github.com/rs/zerolog"
)

// notificationRetention is the age past which read notifications are swept.
const notificationRetention = 30 * 24 * time.Hour

// defaultRecentWindow is the trailing window for recent withdrawal polling.
const defaultRecentWindow = 5 * time.Minute

// Handler defines attributes of a struct available to its methods.
type Handler struct {
	service      processor.Processor
	serverConfig *config.ServerConfig
	log          *zerolog.Logger
}

// InitHandlers initializes a handler object.
func InitHandlers(mainService processor.Processor, serverConfig *config.ServerConfig, log *zerolog.Logger) (*Handler, error) {
	if mainService == nil {
		return nil, &handlersErrors.HandlersFoundNilArgument{Msg: "nil processor was passed to handlers initializer"}
	}
	return &Handler{service: mainService, serverConfig: serverConfig, log: log}, nil
}

// HandleRegister processes user register requests.
func (h *Handler) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		var credentials modeldto.User
		if !h.readBody(w, r, &credentials, "HandleRegister") {
			return
		}
		if len(credentials.Login) == 0 || len(credentials.Password) == 0 {
			h.log.Error().Msg("HandleRegister failed")
			h.writeError(w, http.StatusBadRequest, "Empty values are not allowed")
			return
		}
		h.log.Info().Msg(fmt.Sprintf("new user register request detected for %s", credentials.Login))
		accessToken, err := h.service.AddNewUser(ctx, credentials)
		if err != nil {
			h.log.Error().Err(err).Msg("HandleRegister failed")
			var contextTimeoutExceededError *storageErrors.ContextTimeoutExceededError
			var alreadyExistsError *storageErrors.AlreadyExistsError
			if errors.As(err, &contextTimeoutExceededError) {
				h.writeError(w, http.StatusGatewayTimeout, "Request timed out")
			} else if errors.As(err, &alreadyExistsError) {
				h.writeError(w, http.StatusConflict, "Login is already taken")
			} else {
				h.writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}
		w.Header().Set("Authorization", "Bearer "+accessToken)
		w.WriteHeader(http.StatusOK)
	}
}

// HandleLogin processes user login requests.
func (h *Handler) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		var credentials modeldto.User
		if !h.readBody(w, r, &credentials, "HandleLogin") {
			return
		}
		if credentials.Login == "" || credentials.Password == "" {
			h.log.Error().Msg("HandleLogin failed")
			h.writeError(w, http.StatusBadRequest, "Empty values are not allowed")
			return
		}
		h.log.Info().Msg(fmt.Sprintf("new login request detected for %s", credentials.Login))
		accessToken, err := h.service.LoginUser(ctx, credentials)
		if err != nil {
			h.log.Error().Err(err).Msg("HandleLogin failed")
			var contextTimeoutExceededError *storageErrors.ContextTimeoutExceededError
			var notFoundError *storageErrors.NotFoundError
			if errors.As(err, &contextTimeoutExceededError) {
				h.writeError(w, http.StatusGatewayTimeout, "Request timed out")
			} else if errors.As(err, &notFoundError) {
				h.writeError(w, http.StatusUnauthorized, "Unauthorized")
			} else {
				h.writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}
		w.Header().Set("Authorization", "Bearer "+accessToken)
		w.WriteHeader(http.StatusOK)
	}
}

// HandleNewAccount processes new survey account requests.
func (h *Handler) HandleNewAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		userID, ok := h.authorize(w, r, "HandleNewAccount")
		if !ok {
			return
		}
		var account modeldto.NewAccount
		if !h.readBody(w, r, &account, "HandleNewAccount") {
			return
		}
		err := h.service.AddNewAccount(ctx, userID, account)
		if err != nil {
			h.log.Error().Err(err).Msg("HandleNewAccount failed")
			var contextTimeoutExceededError *storageErrors.ContextTimeoutExceededError
			var alreadyExistsError *storageErrors.AlreadyExistsError
			var serviceInvalidEntry *serviceErrors.ServiceInvalidEntry
			if errors.As(err, &contextTimeoutExceededError) {
				h.writeError(w, http.StatusGatewayTimeout, "Request timed out")
			} else if errors.As(err, &alreadyExistsError) {
				h.writeError(w, http.StatusConflict, "Account already exists")
			} else if errors.As(err, &serviceInvalidEntry) {
				h.writeError(w, http.StatusBadRequest, err.Error())
			} else {
				h.writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

// HandleGetAccounts processes account query requests.
func (h *Handler) HandleGetAccounts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		userID, ok := h.authorize(w, r, "HandleGetAccounts")
		if !ok {
			return
		}
		accounts, err := h.service.GetAccounts(ctx, userID)
		if err != nil {
			h.log.Error().Err(err).Msg("HandleGetAccounts failed")
			h.writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.writeJSON(w, http.StatusOK, accounts)
	}
}

// HandleNewEntry processes new daily point entry requests.
func (h *Handler) HandleNewEntry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		userID, ok := h.authorize(w, r, "HandleNewEntry")
		if !ok {
			return
		}
		var entry modeldto.NewEntry
		if !h.readBody(w, r, &entry, "HandleNewEntry") {
			return
		}
		h.log.Info().Msg(fmt.Sprintf("new entry request detected for %s", entry.Date))
		err := h.service.AddNewEntry(ctx, userID, entry)
		if err != nil {
			h.log.Error().Err(err).Msg("HandleNewEntry failed")
			var contextTimeoutExceededError *storageErrors.ContextTimeoutExceededError
			var serviceInvalidEntry *serviceErrors.ServiceInvalidEntry
			if errors.As(err, &contextTimeoutExceededError) {
				h.writeError(w, http.StatusGatewayTimeout, "Request timed out")
			} else if errors.As(err, &serviceInvalidEntry) {
				h.writeError(w, http.StatusBadRequest, err.Error())
			} else {
				h.writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

// HandleGetEntries processes entry query requests for the current month.
func (h *Handler) HandleGetEntries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		userID, ok := h.authorize(w, r, "HandleGetEntries")
		if !ok {
			return
		}
		entries, err := h.service.GetCurrentMonthEntries(ctx, userID)
		if err != nil {
			h.log.Error().Err(err).Msg("HandleGetEntries failed")
			h.writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.writeJSON(w, http.StatusOK, entries)
	}
}

// HandleDailyGoal processes daily goal evaluation requests.
func (h *Handler) HandleDailyGoal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		userID, ok := h.authorize(w, r, "HandleDailyGoal")
		if !ok {
			return
		}
		date := time.Now()
		if rawDate := r.URL.Query().Get("date"); rawDate != "" {
			parsedDate, err := time.ParseInLocation("2006-01-02", rawDate, time.UTC)
			if err != nil {
				h.log.Error().Err(err).Msg("HandleDailyGoal failed")
				h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Illegal date %s", rawDate))
				return
			}
			date = parsedDate
		}
		dailyGoal, err := h.service.EvaluateDailyGoal(ctx, userID, date)
		if err != nil {
			h.log.Error().Err(err).Msg("HandleDailyGoal failed")
			h.writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.writeJSON(w, http.StatusOK, dailyGoal)
	}
}

// HandleGetTarget processes monthly target query requests.
func (h *Handler) HandleGetTarget() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.authorize(w, r, "HandleGetTarget")
		if !ok {
			return
		}
		h.writeJSON(w, http.StatusOK, h.service.GetMonthlyTarget(userID))
	}
}

// HandleSetTarget processes monthly target update requests.
func (h *Handler) HandleSetTarget() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.authorize(w, r, "HandleSetTarget")
		if !ok {
			return
		}
		var newTarget modeldto.NewMonthlyTarget
		if !h.readBody(w, r, &newTarget, "HandleSetTarget") {
			return
		}
		target, err := h.service.SetMonthlyTarget(userID, newTarget)
		if err != nil {
			h.log.Error().Err(err).Msg("HandleSetTarget failed")
			var invalidTargetError *targetErrors.InvalidTargetError
			if errors.As(err, &invalidTargetError) {
				h.writeError(w, http.StatusBadRequest, err.Error())
			} else {
				h.writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}
		h.writeJSON(w, http.StatusOK, target)
	}
}

// HandleGetBalance processes balance query requests.
func (h *Handler) HandleGetBalance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		userID, ok := h.authorize(w, r, "HandleGetBalance")
		if !ok {
			return
		}
		balance, err := h.service.GetBalance(ctx, userID)
		if err != nil {
			h.log.Error().Err(err).Msg("HandleGetBalance failed")
			h.writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.writeJSON(w, http.StatusOK, balance)
	}
}

// HandleNewWithdrawal processes new withdrawal requests.
func (h *Handler) HandleNewWithdrawal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		userID, ok := h.authorize(w, r, "HandleNewWithdrawal")
		if !ok {
			return
		}
		var newWithdrawal modeldto.NewWithdrawal
		if !h.readBody(w, r, &newWithdrawal, "HandleNewWithdrawal") {
			return
		}
		h.log.Info().Msg(fmt.Sprintf("new withdrawal request detected for %v", newWithdrawal.Amount))
		err := h.service.AddNewWithdrawal(ctx, userID, newWithdrawal)
		if err != nil {
			h.log.Error().Err(err).Msg("HandleNewWithdrawal failed")
			var contextTimeoutExceededError *storageErrors.ContextTimeoutExceededError
			var serviceIllegalCardNumber *serviceErrors.ServiceIllegalCardNumber
			var serviceInvalidEntry *serviceErrors.ServiceInvalidEntry
			var serviceNotEnoughFunds *serviceErrors.ServiceNotEnoughFunds
			if errors.As(err, &contextTimeoutExceededError) {
				h.writeError(w, http.StatusGatewayTimeout, "Request timed out")
			} else if errors.As(err, &serviceIllegalCardNumber) {
				h.writeError(w, http.StatusUnprocessableEntity, err.Error())
			} else if errors.As(err, &serviceInvalidEntry) {
				h.writeError(w, http.StatusBadRequest, err.Error())
			} else if errors.As(err, &serviceNotEnoughFunds) {
				h.writeError(w, http.StatusPaymentRequired, err.Error())
			} else {
				h.writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

// HandleGetWithdrawals processes withdrawal query requests.
func (h *Handler) HandleGetWithdrawals() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		userID, ok := h.authorize(w, r, "HandleGetWithdrawals")
		if !ok {
			return
		}
		withdrawals, err := h.service.GetWithdrawals(ctx, userID)
		if err != nil {
			h.log.Error().Err(err).Msg("HandleGetWithdrawals failed")
			h.writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if len(withdrawals) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.writeJSON(w, http.StatusOK, withdrawals)
	}
}

// HandleRecentWithdrawals processes short-poll queries for recently completed withdrawals.
func (h *Handler) HandleRecentWithdrawals() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		userID, ok := h.authorize(w, r, "HandleRecentWithdrawals")
		if !ok {
			return
		}
		window := defaultRecentWindow
		if rawWindow := r.URL.Query().Get("window"); rawWindow != "" {
			windowMinutes, err := strconv.Atoi(rawWindow)
			if err != nil || windowMinutes <= 0 {
				h.log.Error().Msg("HandleRecentWithdrawals failed")
				h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Illegal window %s", rawWindow))
				return
			}
			window = time.Duration(windowMinutes) * time.Minute
		}
		withdrawals, err := h.service.GetRecentWithdrawalUpdates(ctx, userID, window)
		if err != nil {
			h.log.Error().Err(err).Msg("HandleRecentWithdrawals failed")
			h.writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.writeJSON(w, http.StatusOK, withdrawals)
	}
}

// HandleGetNotifications processes notification query requests.
func (h *Handler) HandleGetNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.authorize(w, r, "HandleGetNotifications")
		if !ok {
			return
		}
		h.writeJSON(w, http.StatusOK, h.service.GetNotifications(userID))
	}
}

// HandleReadNotification processes single notification read requests.
func (h *Handler) HandleReadNotification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ok := h.authorize(w, r, "HandleReadNotification")
		if !ok {
			return
		}
		var body modeldto.NotificationID
		if !h.readBody(w, r, &body, "HandleReadNotification") {
			return
		}
		h.service.MarkNotificationAsRead(body.NotificationID)
		w.WriteHeader(http.StatusOK)
	}
}

// HandleReadAllNotifications processes bulk notification read requests.
func (h *Handler) HandleReadAllNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.authorize(w, r, "HandleReadAllNotifications")
		if !ok {
			return
		}
		var body modeldto.NotificationIDs
		if !h.readBody(w, r, &body, "HandleReadAllNotifications") {
			return
		}
		h.service.MarkAllNotificationsAsRead(userID, body.NotificationIDs)
		w.WriteHeader(http.StatusOK)
	}
}

// HandleDeleteNotification processes notification delete requests.
func (h *Handler) HandleDeleteNotification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ok := h.authorize(w, r, "HandleDeleteNotification")
		if !ok {
			return
		}
		var body modeldto.NotificationID
		if !h.readBody(w, r, &body, "HandleDeleteNotification") {
			return
		}
		h.service.DeleteNotification(body.NotificationID)
		w.WriteHeader(http.StatusOK)
	}
}

// HandleSweepNotifications runs the notification retention sweep.
func (h *Handler) HandleSweepNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ok := h.authorize(w, r, "HandleSweepNotifications")
		if !ok {
			return
		}
		removed := h.service.SweepNotifications(notificationRetention)
		h.log.Info().Msg(fmt.Sprintf("notification retention sweep removed %d records", removed))
		h.writeJSON(w, http.StatusOK, modeldto.SweepResult{Removed: removed})
	}
}

// authorize retrieves the user identifier from the request metadata.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, caller string) (string, bool) {
	accessToken := r.Header.Get("Authorization")
	if len(accessToken) == 0 {
		h.log.Error().Msg(fmt.Sprintf("%s failed: token authorization required", caller))
		h.writeError(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	accessToken = strings.Replace(accessToken, "Bearer ", "", 1)
	userID, err := h.service.GetUserID(accessToken)
	if err != nil {
		h.log.Error().Err(err).Msg(fmt.Sprintf("%s failed", caller))
		h.writeError(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return userID, true
}

// readBody reads and unmarshals a JSON request body.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request, target interface{}, caller string) bool {
	if contentType := r.Header.Get("Content-Type"); !strings.HasPrefix(contentType, "application/json") {
		h.writeError(w, http.StatusBadRequest, "Invalid Content-Type")
		return false
	}
	b, err := ioutil.ReadAll(r.Body)
	if err != nil {
		h.log.Error().Err(err).Msg(fmt.Sprintf("%s failed", caller))
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return false
	}
	err = json.Unmarshal(b, target)
	if err != nil {
		h.log.Error().Err(err).Msg(fmt.Sprintf("%s failed", caller))
		h.writeError(w, http.StatusBadRequest, "Malformed request body")
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	resBody, err := json.Marshal(body)
	if err != nil {
		h.log.Error().Err(err).Msg("response marshalling failed")
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(resBody)
	if err != nil {
		h.log.Error().Err(err).Msg("response writing failed")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resBody, _ := json.Marshal(map[string]string{"error": msg})
	_, err := w.Write(resBody)
	if err != nil {
		h.log.Error().Err(err).Msg("response writing failed")
	}
}
