package canopy

// autotileChunks maps each of the 48 autotile patterns to the source of its
// four half-tile chunks (left-top, right-top, left-bottom, right-bottom),
// in tile units within one 3x4 autotile frame.
var autotileChunks = [48][4][2]float32{
	{{1, 2}, {1.5, 2}, {1, 2.5}, {1.5, 2.5}}, // 0
	{{2, 0}, {1.5, 2}, {1, 2.5}, {1.5, 2.5}}, // 1
	{{1, 2}, {2.5, 0}, {1, 2.5}, {1.5, 2.5}}, // 2
	{{2, 0}, {2.5, 0}, {1, 2.5}, {1.5, 2.5}}, // 3
	{{1, 2}, {1.5, 2}, {1, 2.5}, {2.5, 0.5}}, // 4
	{{2, 0}, {1.5, 2}, {1, 2.5}, {2.5, 0.5}}, // 5
	{{1, 2}, {2.5, 0}, {1, 2.5}, {2.5, 0.5}}, // 6
	{{2, 0}, {2.5, 0}, {1, 2.5}, {2.5, 0.5}}, // 7
	{{1, 2}, {1.5, 2}, {2, 0.5}, {1.5, 2.5}}, // 8
	{{2, 0}, {1.5, 2}, {2, 0.5}, {1.5, 2.5}}, // 9
	{{1, 2}, {2.5, 0}, {2, 0.5}, {1.5, 2.5}}, // 10
	{{2, 0}, {2.5, 0}, {2, 0.5}, {1.5, 2.5}}, // 11
	{{1, 2}, {1.5, 2}, {2, 0.5}, {2.5, 0.5}}, // 12
	{{2, 0}, {1.5, 2}, {2, 0.5}, {2.5, 0.5}}, // 13
	{{1, 2}, {2.5, 0}, {2, 0.5}, {2.5, 0.5}}, // 14
	{{2, 0}, {2.5, 0}, {2, 0.5}, {2.5, 0.5}}, // 15
	{{0, 2}, {0.5, 2}, {0, 2.5}, {0.5, 2.5}}, // 16
	{{0, 2}, {2.5, 0}, {0, 2.5}, {0.5, 2.5}}, // 17
	{{0, 2}, {0.5, 2}, {0, 2.5}, {2.5, 0.5}}, // 18
	{{0, 2}, {2.5, 0}, {0, 2.5}, {2.5, 0.5}}, // 19
	{{1, 1}, {1.5, 1}, {1, 1.5}, {1.5, 1.5}}, // 20
	{{1, 1}, {1.5, 1}, {1, 1.5}, {2.5, 0.5}}, // 21
	{{1, 1}, {1.5, 1}, {2, 0.5}, {1.5, 1.5}}, // 22
	{{1, 1}, {1.5, 1}, {2, 0.5}, {2.5, 0.5}}, // 23
	{{2, 2}, {2.5, 2}, {2, 2.5}, {2.5, 2.5}}, // 24
	{{2, 2}, {2.5, 2}, {2, 0.5}, {2.5, 2.5}}, // 25
	{{2, 0}, {2.5, 2}, {2, 2.5}, {2.5, 2.5}}, // 26
	{{2, 0}, {2.5, 2}, {2, 0.5}, {2.5, 2.5}}, // 27
	{{1, 3}, {1.5, 3}, {1, 3.5}, {1.5, 3.5}}, // 28
	{{2, 0}, {1.5, 3}, {1, 3.5}, {1.5, 3.5}}, // 29
	{{1, 3}, {2.5, 0}, {1, 3.5}, {1.5, 3.5}}, // 30
	{{2, 0}, {2.5, 0}, {1, 3.5}, {1.5, 3.5}}, // 31
	{{0, 2}, {2.5, 2}, {0, 2.5}, {2.5, 2.5}}, // 32
	{{1, 1}, {1.5, 1}, {1, 3.5}, {1.5, 3.5}}, // 33
	{{0, 1}, {0.5, 1}, {0, 1.5}, {0.5, 1.5}}, // 34
	{{0, 1}, {0.5, 1}, {0, 1.5}, {2.5, 0.5}}, // 35
	{{2, 1}, {2.5, 1}, {2, 1.5}, {2.5, 1.5}}, // 36
	{{2, 1}, {2.5, 1}, {2, 0.5}, {2.5, 1.5}}, // 37
	{{2, 3}, {2.5, 3}, {2, 3.5}, {2.5, 3.5}}, // 38
	{{2, 0}, {2.5, 3}, {2, 3.5}, {2.5, 3.5}}, // 39
	{{0, 3}, {0.5, 3}, {0, 3.5}, {0.5, 3.5}}, // 40
	{{0, 3}, {2.5, 0}, {0, 3.5}, {0.5, 3.5}}, // 41
	{{0, 1}, {2.5, 1}, {0, 1.5}, {2.5, 1.5}}, // 42
	{{0, 1}, {0.5, 1}, {0, 3.5}, {0.5, 3.5}}, // 43
	{{0, 3}, {2.5, 3}, {0, 3.5}, {2.5, 3.5}}, // 44
	{{2, 1}, {2.5, 1}, {2, 3.5}, {2.5, 3.5}}, // 45
	{{0, 1}, {2.5, 1}, {0, 3.5}, {2.5, 3.5}}, // 46
	{{0, 0}, {0.5, 0}, {0, 0.5}, {0.5, 0.5}}, // 47
}
