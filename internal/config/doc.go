// Package config provides configuration structures and utilities for the
// web scraper. It defines the scraping and crawling options, report format
// preferences, and loaders for the optional YAML defaults file and URL
// list files.
package config
