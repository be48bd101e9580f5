// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package otlpreceiver

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"go.uber.org/zap"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/consumer/consumererror"
	"github.com/telepipe/telepipe/model/otlpjson"
	"github.com/telepipe/telepipe/obsreport"
)

// exportResponse is the body of a 200 response. RejectedItems counts items
// dropped by per-item validation; zero means the whole payload was accepted.
type exportResponse struct {
	PartialSuccess partialSuccess `json:"partialSuccess"`
}

type partialSuccess struct {
	RejectedItems int    `json:"rejectedItems"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (r *otlpReceiver) handleTraces(resp http.ResponseWriter, req *http.Request) {
	body, ok := readAndCloseBody(resp, req)
	if !ok {
		return
	}

	td, err := otlpjson.UnmarshalTraces(body)
	if err != nil {
		r.writeDecodeError(resp, component.SignalTraces, err)
		return
	}

	rejected := sanitizeTraces(&td, r.logger)
	accepted := td.SpanCount()
	if r.next.Traces == nil {
		writeError(resp, http.StatusNotFound, "no traces pipeline configured")
		return
	}
	if accepted > 0 {
		if err := r.next.Traces.ConsumeTraces(req.Context(), td); err != nil {
			r.writeConsumeError(resp, component.SignalTraces, accepted, err)
			return
		}
	}
	r.obsrecv.Accepted(component.SignalTraces, accepted)
	r.obsrecv.Refused(component.SignalTraces, obsreport.ReasonValidation, rejected)
	writeSuccess(resp, rejected)
}

func (r *otlpReceiver) handleMetrics(resp http.ResponseWriter, req *http.Request) {
	body, ok := readAndCloseBody(resp, req)
	if !ok {
		return
	}

	md, err := otlpjson.UnmarshalMetrics(body)
	if err != nil {
		r.writeDecodeError(resp, component.SignalMetrics, err)
		return
	}

	rejected := sanitizeMetrics(&md, r.logger)
	accepted := md.DataPointCount()
	if r.next.Metrics == nil {
		writeError(resp, http.StatusNotFound, "no metrics pipeline configured")
		return
	}
	if accepted > 0 {
		if err := r.next.Metrics.ConsumeMetrics(req.Context(), md); err != nil {
			r.writeConsumeError(resp, component.SignalMetrics, accepted, err)
			return
		}
	}
	r.obsrecv.Accepted(component.SignalMetrics, accepted)
	r.obsrecv.Refused(component.SignalMetrics, obsreport.ReasonValidation, rejected)
	writeSuccess(resp, rejected)
}

func (r *otlpReceiver) handleLogs(resp http.ResponseWriter, req *http.Request) {
	body, ok := readAndCloseBody(resp, req)
	if !ok {
		return
	}

	ld, err := otlpjson.UnmarshalLogs(body)
	if err != nil {
		r.writeDecodeError(resp, component.SignalLogs, err)
		return
	}

	rejected := sanitizeLogs(&ld, r.logger)
	accepted := ld.LogRecordCount()
	if r.next.Logs == nil {
		writeError(resp, http.StatusNotFound, "no logs pipeline configured")
		return
	}
	if accepted > 0 {
		if err := r.next.Logs.ConsumeLogs(req.Context(), ld); err != nil {
			r.writeConsumeError(resp, component.SignalLogs, accepted, err)
			return
		}
	}
	r.obsrecv.Accepted(component.SignalLogs, accepted)
	r.obsrecv.Refused(component.SignalLogs, obsreport.ReasonValidation, rejected)
	writeSuccess(resp, rejected)
}

func (r *otlpReceiver) writeDecodeError(resp http.ResponseWriter, signal string, err error) {
	r.logger.Debug("Failed to decode payload", zap.String("signal", signal), zap.Error(err))
	r.obsrecv.Refused(signal, "decode_error", 1)
	writeError(resp, http.StatusBadRequest, err.Error())
}

// writeConsumeError maps a downstream error to an ingress status: a throttle
// signal (queue saturation) becomes 429 with a Retry-After hint so clients
// slow down instead of piling on; everything else is a 500.
func (r *otlpReceiver) writeConsumeError(resp http.ResponseWriter, signal string, items int, err error) {
	if consumererror.IsThrottle(err) {
		r.obsrecv.Refused(signal, obsreport.ReasonQueueFull, items)
		delay := consumererror.ThrottleDelay(err)
		if delay > 0 {
			resp.Header().Set("Retry-After", fmt.Sprintf("%d", int(delay.Seconds()+0.5)))
		}
		writeError(resp, http.StatusTooManyRequests, err.Error())
		return
	}
	r.logger.Warn("Failed to push payload into the pipeline", zap.String("signal", signal), zap.Error(err))
	r.obsrecv.Refused(signal, "internal_error", items)
	writeError(resp, http.StatusInternalServerError, err.Error())
}

func readAndCloseBody(resp http.ResponseWriter, req *http.Request) ([]byte, bool) {
	body, err := ioutil.ReadAll(req.Body)
	if err != nil {
		writeError(resp, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if err = req.Body.Close(); err != nil {
		writeError(resp, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return body, true
}

func writeSuccess(w http.ResponseWriter, rejected int) {
	rsp := exportResponse{PartialSuccess: partialSuccess{RejectedItems: rejected}}
	if rejected > 0 {
		rsp.PartialSuccess.ErrorMessage = "some items failed validation and were dropped"
	}
	writeJSON(w, http.StatusOK, rsp)
}

func writeError(w http.ResponseWriter, statusCode int, msg string) {
	writeJSON(w, statusCode, errorResponse{Message: msg})
}

var fallbackMsg = []byte(`{"message": "failed to marshal response"}`)

func writeJSON(w http.ResponseWriter, statusCode int, rsp interface{}) {
	msg, err := json.Marshal(rsp)
	if err != nil {
		msg = fallbackMsg
		statusCode = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// Nothing we can do with the error if we cannot write to the response.
	_, _ = w.Write(msg)
}
