// Command lumen is the CLI for the media ingestion pipeline: run the
// pipeline in the foreground, trigger one-shot scans and organize
// passes, and inspect the processed-file catalog.
package main
