// Package config manages the named start presets advertised to the admin
// UI. Built-in presets are always available; JSON files in the config
// directory add to or override them.
package config
