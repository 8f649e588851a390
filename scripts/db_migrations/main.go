package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	server_config "github.com/carson-networks/financas-pro/internal/config"
	"github.com/carson-networks/financas-pro/internal/storage"
)

func main() {
	driver := flag.String("driver", storage.DriverPostgres, "database to migrate: postgres or sqlite")
	flag.Parse()

	env, err := server_config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}

	var dsn string
	switch *driver {
	case storage.DriverPostgres:
		dsn = env.PostgresConnectionString()
	case storage.DriverSQLite:
		dsn = env.SQLiteDBPath
	default:
		logrus.WithField("driver", *driver).Fatal("unknown migration driver")
		return
	}

	result, err := storage.RunMigrations(*driver, dsn)
	if err != nil {
		logrus.WithError(err).Fatal("storage.RunMigrations")
		return
	}

	logrus.WithFields(logrus.Fields{
		"driver":               *driver,
		"preMigrationVersion":  result.PreMigrationVersion,
		"postMigrationVersion": result.PostMigrationVersion,
	}).Info("Migration status")
}
