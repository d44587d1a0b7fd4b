//go:build integration

package integration_test

import (
	"context"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/couchcryptid/squirrel-census-etl/internal/config"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const rawObservations = "" +
	"X;Y;Unique Squirrel ID;Hectare;Shift;Date;Hectare Squirrel Number;Age;Primary Fur Color;Highlight Fur Color;Location;Running;Chasing;Climbing;Eating;Foraging;Kuks;Quaas;Moans;Tail flags;Tail twitches;Approaches;Indifferent;Runs from;Lat/Long\n" +
	"-73.9561344937861;40.7940823884086;37F-PM-1014-03;37F;PM;10142018;3;;Gray;;;FALSE;FALSE;FALSE;FALSE;TRUE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;POINT (-73.9561344937861 40.7940823884086)\n" +
	"-73.9684;40.7828;21B-AM-1019-04;21B;AM;10192018;4;Adult;Gray;;Ground Plane;TRUE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;TRUE;POINT (-73.9684 40.7828)\n" +
	"-73.9702;40.7712;11B-PM-1014-08;11B;PM;10142018;8;Juvenile;Cinnamon;;Above Ground;FALSE;FALSE;TRUE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;POINT (-73.9702 40.7712)\n"

const rawAreas = "" +
	"Hectare;Shift;Date;Anything Else;Total Time of Sighting;Number of sighters;Number of Squirrels;Sighter Observed Weather Data;Litter;Other Animal Sightings;Hectare Conditions;Hectare Conditions Notes\n" +
	"37F;PM;10142018;;;1;3;65º F, sunny;;Dog, Pigeon;Busy;\n" +
	"21B;AM;10192018;;;1;4;;;Pigeons;Calm;\n" +
	"11B;PM;10142018;;;1;2;58 F;;;Moderate;\n" +
	"11B;PM;10142018;;;1;1;cloudy;;Dogs;Busy;\n"

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// startKafka runs a single-node broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("squirrel-census-test"),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster
// controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "find controller")

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}), "create topic %s", topic)
}

// writeRawExports writes the raw fixture pair into a temp dir and returns a
// config pointing at it.
func writeRawExports(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		ObservationFile: filepath.Join(dir, "squirrels.csv"),
		AreaFile:        filepath.Join(dir, "hectares.csv"),
		OutputDir:       filepath.Join(dir, "cleaned_data"),
		RetainGeometry:  true,
	}
	require.NoError(t, os.WriteFile(cfg.ObservationFile, []byte(rawObservations), 0o600))
	require.NoError(t, os.WriteFile(cfg.AreaFile, []byte(rawAreas), 0o600))
	return cfg
}
