// Package prometheus records pipeline metrics with the Prometheus client
// library and writes them as a node-exporter textfile after each run.
package prometheus
