// Package file stores docaudit settings in ~/.docaudit/config.toml.
//
// The store flattens TOML tables into dotted keys on load and nests them
// again on save, so a file edited by hand and one written by
// "docaudit settings set" have the same layout.
package file
