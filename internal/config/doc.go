// Package config manages user-level settings stored at ~/.stubtree/config.yaml.
// It loads, reads, and writes keys such as the default report mode, the
// permission bits used for created directories and files, and the layout
// that "stubtree apply" falls back to when it is given no paths.
package config
