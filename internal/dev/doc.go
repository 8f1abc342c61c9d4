// Package dev reloads a route configuration file while it is being edited.
package dev
