// Package loads turns environmental conditions into distributed line loads
// on the tower.
//
// A [Generator] maps node elevations and outer diameters to a force per unit
// length at every node. Wind is described by a vertical profile ([PowerWind]
// or [LogWind]) and converted to drag on a circular cylinder; waves use
// linear (Airy) kinematics with the Morison equation ([LinearWave]). Several
// generators can be summed with [Combine].
//
// Loads act horizontally along the heading, measured in degrees from the
// global x axis towards y.
package loads
