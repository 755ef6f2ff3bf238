package integration

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/2beens/gympro/internal/misc"
	"github.com/2beens/gympro/internal/workouts"
	"github.com/2beens/gympro/internal/workouts/store"

	"github.com/go-redis/redis/v8"
)

func (s *IntegrationTestSuite) TestHealth() {
	status, body := s.do("GET", "/health", nil)
	s.Require().Equal(http.StatusOK, status)

	var resp misc.HealthResponse
	s.Require().NoError(json.Unmarshal([]byte(body), &resp))
	s.Equal("redis", resp.StoreBackend)
	s.Equal("test-version-info", resp.Version)
}

func (s *IntegrationTestSuite) TestUnauthorized() {
	resp, err := s.client.Get(s.endpoint + "/state")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestStateSurvivesRestart() {
	status, body := s.do("POST", "/sessions/today/Legs/exercises/7/sets", nil)
	s.Require().Equal(http.StatusCreated, status, body)

	status, body = s.do("PUT", "/sessions/today/Legs/exercises/7/sets/0", url.Values{
		"field": {"weight"},
		"value": {"120"},
	})
	s.Require().Equal(http.StatusOK, status, body)
	status, body = s.do("PUT", "/sessions/today/Legs/exercises/7/sets/0", url.Values{
		"field": {"reps"},
		"value": {"5"},
	})
	s.Require().Equal(http.StatusOK, status, body)

	// the blob is in redis under the state key
	rdb := redis.NewClient(&redis.Options{Addr: net.JoinHostPort("localhost", s.redisPort)})
	defer rdb.Close()
	blob, err := rdb.Get(context.Background(), store.DefaultKey).Bytes()
	s.Require().NoError(err)
	s.Require().NotEmpty(store.Decode(blob).Sessions)

	s.restartServer()

	status, body = s.do("GET", "/exercises/7/volume", nil)
	s.Require().Equal(http.StatusOK, status, body)
	var points []workouts.ChartPoint
	s.Require().NoError(json.Unmarshal([]byte(body), &points))
	s.Require().Len(points, 1)
	s.Equal(600.0, points[0].Value)
}

func (s *IntegrationTestSuite) TestExportAndMetrics() {
	status, body := s.do("POST", "/weight", url.Values{"weight": {"79.4"}})
	s.Require().Equal(http.StatusCreated, status, body)

	status, body = s.do("GET", "/export", nil)
	s.Require().Equal(http.StatusOK, status)
	s.True(strings.HasPrefix(body, "Tipo,Fecha,Rutina/Info,Ejercicio,Set,Peso_Reps\n"))
	s.Contains(body, "Peso Corporal,")

	resp, err := s.client.Get("http://" + net.JoinHostPort(s.cfg.PrometheusMetricsHost, s.cfg.PrometheusMetricsPort) + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()
	metricsBody, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Contains(string(metricsBody), "gympro_main_weight_logs")
	s.Contains(string(metricsBody), "gympro_main_state_saves")
}
