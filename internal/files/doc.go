// Package files locates workbooks and snapshots on disk.
package files
