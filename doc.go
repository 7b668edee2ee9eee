// Package zunderbolt holds the ambient pieces shared by the buffered file
// stream packages: structured logging, metrics collection and configuration.
//
// The stream itself lives in package stream:
//
//	fs := stream.New(stream.WithBufferSize(16 << 10))
//	if err := fs.Open("data.bin", stream.OpenOrCreate); err != nil && !stream.IsWarning(err) {
//		return err
//	}
//	defer fs.Close()
//
//	fs.Write([]byte("hello"))
//	fs.SetPosition(0)
//	buf := make([]byte, 5)
//	fs.Read(buf) // served from the cache, no flush needed
//
// Writes are deferred. Data reaches the file when the position leaves the
// cached window, on Flush, or on Close.
//
// # Configuration
//
// Config is loaded with LoadConfig from a YAML file and ZB_* environment
// variables. stream.OptionsFromConfig turns it into stream options and
// NewLoggerFromConfig builds the matching Logger.
//
// # Metrics
//
// Implement MetricsCollector or use BasicMetricsCollector for in-memory
// counters and PrometheusCollector to export through client_golang.
package zunderbolt
