package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogging_Level(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, SetupLogging("debug").Level)
	assert.Equal(t, logrus.InfoLevel, SetupLogging("nonsense").Level)
}

func TestLogData_FieldsAndTimings(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, logrus.InfoLevel)
	logData := NewLogData(logger)

	logData.AddData("transactionCount", 3)
	stop := logData.AddTiming("listMs")
	stop()
	logData.Log().Info("done")

	var entry map[string]interface{}
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["loglevel"])
	assert.Equal(t, float64(3), entry["transactionCount"])
	assert.Contains(t, entry, "listMs")
}

func TestLogData_Context(t *testing.T) {
	assert.Nil(t, GetLogData(context.Background()))

	logData := NewLogData(Discard())
	ctx := WithLogData(context.Background(), logData)
	assert.Same(t, logData, GetLogData(ctx))
}

func TestLoggingWrapper_PassesLogData(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, logrus.InfoLevel)

	handler := LoggingWrapper("Test", logger, func(w http.ResponseWriter, req *http.Request, logData *LogData) error {
		assert.Same(t, logData, GetLogData(req.Context()))
		logData.AddData("seen", true)
		w.WriteHeader(http.StatusTeapot)
		return errors.New("short and stout")
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Contains(t, buf.String(), "Handler.Test.Error")
	assert.Contains(t, buf.String(), "short and stout")
}
