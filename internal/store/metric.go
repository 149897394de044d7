package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"strings"
	"time"

	"github.com/ngrok/sqlmw"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	sqlVerbRegex = regexp.MustCompile(`^\s*(\w+)`)

	sqlOpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:      "sql_op_duration_milliseconds",
		Help:      "Time spent on a sql operation",
		Subsystem: "applytrack",
		Buckets:   []float64{5, 25, 100, 300, 1000, 5000},
	},
		[]string{"op", "verb"},
	)
	sqlOpTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "sql_op_total",
		Help:      "Number of sql operations",
		Subsystem: "applytrack",
	},
		[]string{"op", "result"},
	)
)

func init() {
	prometheus.MustRegister(sqlOpLatency)
	prometheus.MustRegister(sqlOpTotal)
}

// metricInterceptor times the statements sent through the postgres driver.
type metricInterceptor struct {
	sqlmw.NullInterceptor
}

func (mi *metricInterceptor) ConnBeginTx(ctx context.Context, conn driver.ConnBeginTx, opts driver.TxOptions) (context.Context, driver.Tx, error) {
	start := time.Now()
	tx, err := conn.BeginTx(ctx, opts)
	mi.measure("begin", "begin", start, err)
	return ctx, tx, err
}

func (mi *metricInterceptor) ConnExecContext(ctx context.Context, conn driver.ExecerContext, query string, args []driver.NamedValue) (driver.Result, error) {
	start := time.Now()
	res, err := conn.ExecContext(ctx, query, args)
	mi.measure("exec", verb(query), start, err)
	return res, err
}

func (mi *metricInterceptor) ConnQueryContext(ctx context.Context, conn driver.QueryerContext, query string, args []driver.NamedValue) (context.Context, driver.Rows, error) {
	start := time.Now()
	rows, err := conn.QueryContext(ctx, query, args)
	mi.measure("query", verb(query), start, err)
	return ctx, rows, err
}

func (mi *metricInterceptor) StmtExecContext(ctx context.Context, conn driver.StmtExecContext, query string, args []driver.NamedValue) (driver.Result, error) {
	start := time.Now()
	res, err := conn.ExecContext(ctx, args)
	mi.measure("stmt-exec", verb(query), start, err)
	return res, err
}

func (mi *metricInterceptor) StmtQueryContext(ctx context.Context, conn driver.StmtQueryContext, query string, args []driver.NamedValue) (context.Context, driver.Rows, error) {
	start := time.Now()
	rows, err := conn.QueryContext(ctx, args)
	mi.measure("stmt-query", verb(query), start, err)
	return ctx, rows, err
}

func (mi *metricInterceptor) TxCommit(ctx context.Context, conn driver.Tx) error {
	start := time.Now()
	err := conn.Commit()
	mi.measure("commit", "commit", start, err)
	return err
}

func (mi *metricInterceptor) TxRollback(ctx context.Context, conn driver.Tx) error {
	start := time.Now()
	err := conn.Rollback()
	mi.measure("rollback", "rollback", start, err)
	return err
}

func (mi *metricInterceptor) measure(op, verb string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	sqlOpTotal.With(prometheus.Labels{"op": op, "result": result}).Inc()
	sqlOpLatency.With(prometheus.Labels{"op": op, "verb": verb}).Observe(float64(time.Since(start).Milliseconds()))
}

func verb(query string) string {
	matches := sqlVerbRegex.FindStringSubmatch(query)
	if len(matches) < 2 {
		return "unknown"
	}
	return strings.ToLower(matches[1])
}
