// Package operator exposes the HTTP surface used by operators to drive the
// digital twin: command fan-out and registry inspection.
package operator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/etna-dt/twinhub/core/dispatch"
	"github.com/etna-dt/twinhub/core/logger"
	"github.com/etna-dt/twinhub/core/model"
	"github.com/etna-dt/twinhub/core/registry"
)

// commandRequest is the wire format of POST /operator/commands/send.
// target.sensor_id narrows the command to a single sensor; the sensors list
// takes precedence when both are present.
type commandRequest struct {
	CommandID string `json:"command_id"`
	Target    struct {
		SensorID string `json:"sensor_id"`
	} `json:"target"`
	Sensors   []string `json:"sensors"`
	DeviceIDs []string `json:"device_ids"`
	IssuedBy  string   `json:"issued_by"`
}

// commandResponse is returned for every dispatch, successful or not.
type commandResponse struct {
	Status           string                         `json:"status"`
	DispatchID       string                         `json:"dispatch_id,omitempty"`
	Message          string                         `json:"message,omitempty"`
	Devices          map[string]model.DeviceOutcome `json:"devices,omitempty"`
	ConnectionStatus map[string]string              `json:"connection_status,omitempty"`
	SensorStatus     map[string]string              `json:"sensor_status,omitempty"`
	Error            string                         `json:"error,omitempty"`
}

// NewCommandHandler returns the handler for POST /operator/commands/send. The
// response is 200 when at least one device responded, 502 when none did, 400
// for malformed requests and 500 when the collected outcomes violate the
// outcome contract.
func NewCommandHandler(mgr *dispatch.Manager, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req commandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, commandResponse{Status: model.StatusError, Error: "invalid JSON body: " + err.Error()})
			return
		}

		sensors := req.Sensors
		if sensors == nil && req.Target.SensorID != "" {
			sensors = []string{req.Target.SensorID}
		}
		dreq := model.DispatchRequest{
			Command:   req.CommandID,
			Sensors:   sensors,
			DeviceIDs: req.DeviceIDs,
		}

		res, err := mgr.Dispatch(r.Context(), dreq)
		switch {
		case errors.Is(err, model.ErrEmptyCommand):
			writeJSON(w, http.StatusBadRequest, commandResponse{Status: model.StatusError, Error: err.Error()})
			return
		case errors.Is(err, model.ErrInvalidOutcome):
			log.Errorf("command %s: %v", req.CommandID, err)
			writeJSON(w, http.StatusInternalServerError, commandResponse{
				Status:     model.StatusError,
				DispatchID: res.DispatchID,
				Devices:    res.Outcomes,
				Error:      "invalid response structure: " + err.Error(),
			})
			return
		case err != nil:
			writeJSON(w, http.StatusBadRequest, commandResponse{Status: model.StatusError, Error: err.Error()})
			return
		}

		code := http.StatusOK
		if !res.Succeeded() {
			code = http.StatusBadGateway
		}
		log.Infof("command %s dispatched to %d devices by %s: %s", req.CommandID, len(res.Outcomes), req.IssuedBy, res.Overall())
		writeJSON(w, code, commandResponse{
			Status:           res.Overall(),
			DispatchID:       res.DispatchID,
			Message:          fmt.Sprintf("Command %q dispatched to %d devices.", req.CommandID, len(res.Outcomes)),
			Devices:          res.Outcomes,
			ConnectionStatus: res.ConnectionSummary(),
			SensorStatus:     res.SensorSummary(),
		})
	})
}

// NewDevicesHandler returns the handler for GET /operator/devices, listing the
// configured registry.
func NewDevicesHandler(reg *registry.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, reg.All())
	})
}

// NewMux wires the operator routes on a dedicated ServeMux.
func NewMux(mgr *dispatch.Manager, reg *registry.Registry, log logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/operator/commands/send", NewCommandHandler(mgr, log))
	mux.Handle("/operator/devices", NewDevicesHandler(reg))
	return mux
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
