// Package models defines the forum entities shared by repositories,
// services and the transport layer.
package models
