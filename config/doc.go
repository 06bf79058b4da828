// Package config reads the line-oriented parameter file format of §6
// into a kmc.Params tree, plus an ambient YAML run configuration (worker
// count, rendezvous interval) in the teacher's gopkg.in/yaml.v3 style
// (cf. pthm-soup/config/config.go's embed-backed defaults pattern).
package config
