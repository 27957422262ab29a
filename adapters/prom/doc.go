// Package prom records wxmp instrumentation on Prometheus collectors.
package prom
