package canopy

// vxAutotileChunks are the sources of the 2x3 tile autotile layout, in tile
// units. Each pattern lists the left-top, right-top, left-bottom and
// right-bottom half tiles.
var vxAutotileChunks = [48][4][2]float32{
	{{1, 2}, {0.5, 2}, {1, 1.5}, {0.5, 1.5}}, // 0
	{{1, 0}, {0.5, 2}, {1, 1.5}, {0.5, 1.5}}, // 1
	{{1, 2}, {1.5, 0}, {1, 1.5}, {0.5, 1.5}}, // 2
	{{1, 0}, {1.5, 0}, {1, 1.5}, {0.5, 1.5}}, // 3
	{{1, 2}, {0.5, 2}, {1, 1.5}, {1.5, 0.5}}, // 4
	{{1, 0}, {0.5, 2}, {1, 1.5}, {1.5, 0.5}}, // 5
	{{1, 2}, {1.5, 0}, {1, 1.5}, {1.5, 0.5}}, // 6
	{{1, 0}, {1.5, 0}, {1, 1.5}, {1.5, 0.5}}, // 7
	{{1, 2}, {0.5, 2}, {1, 0.5}, {0.5, 1.5}}, // 8
	{{1, 0}, {0.5, 2}, {1, 0.5}, {0.5, 1.5}}, // 9
	{{1, 2}, {1.5, 0}, {1, 0.5}, {0.5, 1.5}}, // 10
	{{1, 0}, {1.5, 0}, {1, 0.5}, {0.5, 1.5}}, // 11
	{{1, 2}, {0.5, 2}, {1, 0.5}, {1.5, 0.5}}, // 12
	{{1, 0}, {0.5, 2}, {1, 0.5}, {1.5, 0.5}}, // 13
	{{1, 2}, {1.5, 0}, {1, 0.5}, {1.5, 0.5}}, // 14
	{{1, 0}, {1.5, 0}, {1, 0.5}, {1.5, 0.5}}, // 15
	{{0, 2}, {0.5, 2}, {0, 1.5}, {0.5, 1.5}}, // 16
	{{0, 2}, {1.5, 0}, {0, 1.5}, {0.5, 1.5}}, // 17
	{{0, 2}, {0.5, 2}, {0, 1.5}, {1.5, 0.5}}, // 18
	{{0, 2}, {1.5, 0}, {0, 1.5}, {1.5, 0.5}}, // 19
	{{1, 1}, {0.5, 1}, {1, 1.5}, {0.5, 1.5}}, // 20
	{{1, 1}, {0.5, 1}, {1, 1.5}, {1.5, 0.5}}, // 21
	{{1, 1}, {0.5, 1}, {1, 0.5}, {0.5, 1.5}}, // 22
	{{1, 1}, {0.5, 1}, {1, 0.5}, {1.5, 0.5}}, // 23
	{{1, 2}, {1.5, 2}, {1, 1.5}, {1.5, 1.5}}, // 24
	{{1, 2}, {1.5, 2}, {1, 0.5}, {1.5, 1.5}}, // 25
	{{1, 0}, {1.5, 2}, {1, 1.5}, {1.5, 1.5}}, // 26
	{{1, 0}, {1.5, 2}, {1, 0.5}, {1.5, 1.5}}, // 27
	{{1, 2}, {0.5, 2}, {1, 2.5}, {0.5, 2.5}}, // 28
	{{1, 0}, {0.5, 2}, {1, 2.5}, {0.5, 2.5}}, // 29
	{{1, 2}, {1.5, 0}, {1, 2.5}, {0.5, 2.5}}, // 30
	{{1, 0}, {1.5, 0}, {1, 2.5}, {0.5, 2.5}}, // 31
	{{0, 2}, {1.5, 2}, {0, 1.5}, {1.5, 1.5}}, // 32
	{{1, 1}, {0.5, 1}, {1, 2.5}, {0.5, 2.5}}, // 33
	{{0, 1}, {0.5, 1}, {0, 1.5}, {0.5, 1.5}}, // 34
	{{0, 1}, {0.5, 1}, {0, 1.5}, {1.5, 0.5}}, // 35
	{{1, 1}, {1.5, 1}, {1, 1.5}, {1.5, 1.5}}, // 36
	{{1, 1}, {1.5, 1}, {1, 0.5}, {1.5, 1.5}}, // 37
	{{1, 2}, {1.5, 2}, {1, 2.5}, {1.5, 2.5}}, // 38
	{{1, 0}, {1.5, 2}, {1, 2.5}, {1.5, 2.5}}, // 39
	{{0, 2}, {0.5, 2}, {0, 2.5}, {0.5, 2.5}}, // 40
	{{0, 2}, {1.5, 0}, {0, 2.5}, {0.5, 2.5}}, // 41
	{{0, 1}, {1.5, 1}, {0, 1.5}, {1.5, 1.5}}, // 42
	{{0, 1}, {0.5, 1}, {0, 2.5}, {0.5, 2.5}}, // 43
	{{0, 2}, {1.5, 2}, {0, 2.5}, {1.5, 2.5}}, // 44
	{{1, 1}, {1.5, 1}, {1, 2.5}, {1.5, 2.5}}, // 45
	{{0, 1}, {1.5, 1}, {0, 2.5}, {1.5, 2.5}}, // 46
	{{0, 0}, {0.5, 0}, {0, 0.5}, {0.5, 0.5}}, // 47
}

// vxWallChunks is the 16-pattern wall layout of A3 and the odd rows of A4.
var vxWallChunks = [16][4][2]float32{
	{{1, 1}, {0.5, 1}, {1, 0.5}, {0.5, 0.5}}, // 0
	{{0, 1}, {0.5, 1}, {0, 0.5}, {0.5, 0.5}}, // 1
	{{1, 0}, {0.5, 0}, {1, 0.5}, {0.5, 0.5}}, // 2
	{{0, 0}, {0.5, 0}, {0, 0.5}, {0.5, 0.5}}, // 3
	{{1, 1}, {1.5, 1}, {1, 0.5}, {1.5, 0.5}}, // 4
	{{0, 1}, {1.5, 1}, {0, 0.5}, {1.5, 0.5}}, // 5
	{{1, 0}, {1.5, 0}, {1, 0.5}, {1.5, 0.5}}, // 6
	{{0, 0}, {1.5, 0}, {0, 0.5}, {1.5, 0.5}}, // 7
	{{1, 1}, {0.5, 1}, {1, 1.5}, {0.5, 1.5}}, // 8
	{{0, 1}, {0.5, 1}, {0, 1.5}, {0.5, 1.5}}, // 9
	{{1, 0}, {0.5, 0}, {1, 1.5}, {0.5, 1.5}}, // 10
	{{0, 0}, {0.5, 0}, {0, 1.5}, {0.5, 1.5}}, // 11
	{{1, 1}, {1.5, 1}, {1, 1.5}, {1.5, 1.5}}, // 12
	{{0, 1}, {1.5, 1}, {0, 1.5}, {1.5, 1.5}}, // 13
	{{1, 0}, {1.5, 0}, {1, 1.5}, {1.5, 1.5}}, // 14
	{{0, 0}, {1.5, 0}, {0, 1.5}, {1.5, 1.5}}, // 15
}

// vxTableChunks adds the two table legs below the four quarters. Entries
// are x, y, w, h in tile units; a zero size means no leg.
var vxTableChunks = [48][6][4]float32{
	{{1, 2, 0.5, 0.5}, {0.5, 2, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {0.5, 0.5, 0, 0}}, // 0
	{{1, 0, 0.5, 0.5}, {0.5, 2, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {0.5, 0.5, 0, 0}}, // 1
	{{1, 2, 0.5, 0.5}, {1.5, 0, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {0.5, 0.5, 0, 0}}, // 2
	{{1, 0, 0.5, 0.5}, {1.5, 0, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {0.5, 0.5, 0, 0}}, // 3
	{{1, 2, 0.5, 0.5}, {0.5, 2, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {1.5, 0.5, 0.5, 0.5}}, // 4
	{{1, 0, 0.5, 0.5}, {0.5, 2, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {1.5, 0.5, 0.5, 0.5}}, // 5
	{{1, 2, 0.5, 0.5}, {1.5, 0, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {1.5, 0.5, 0.5, 0.5}}, // 6
	{{1, 0, 0.5, 0.5}, {1.5, 0, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {1.5, 0.5, 0.5, 0.5}}, // 7
	{{1, 2, 0.5, 0.5}, {0.5, 2, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {1, 0.5, 0.5, 0.5}, {0.5, 0.5, 0, 0}}, // 8
	{{1, 0, 0.5, 0.5}, {0.5, 2, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {1, 0.5, 0.5, 0.5}, {0.5, 0.5, 0, 0}}, // 9
	{{1, 2, 0.5, 0.5}, {1.5, 0, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {1, 0.5, 0.5, 0.5}, {0.5, 0.5, 0, 0}}, // 10
	{{1, 0, 0.5, 0.5}, {1.5, 0, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {1, 0.5, 0.5, 0.5}, {0.5, 0.5, 0, 0}}, // 11
	{{1, 2, 0.5, 0.5}, {0.5, 2, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {1, 0.5, 0.5, 0.5}, {1.5, 0.5, 0.5, 0.5}}, // 12
	{{1, 0, 0.5, 0.5}, {0.5, 2, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {1, 0.5, 0.5, 0.5}, {1.5, 0.5, 0.5, 0.5}}, // 13
	{{1, 2, 0.5, 0.5}, {1.5, 0, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {1, 0.5, 0.5, 0.5}, {1.5, 0.5, 0.5, 0.5}}, // 14
	{{1, 0, 0.5, 0.5}, {1.5, 0, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {1, 0.5, 0.5, 0.5}, {1.5, 0.5, 0.5, 0.5}}, // 15
	{{0, 2, 0.5, 0.5}, {0.5, 2, 0.5, 0.5}, {0, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {0.5, 0.5, 0, 0}}, // 16
	{{0, 2, 0.5, 0.5}, {1.5, 0, 0.5, 0.5}, {0, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {0.5, 0.5, 0, 0}}, // 17
	{{0, 2, 0.5, 0.5}, {0.5, 2, 0.5, 0.5}, {0, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {1.5, 0.5, 0.5, 0.5}}, // 18
	{{0, 2, 0.5, 0.5}, {1.5, 0, 0.5, 0.5}, {0, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {1.5, 0.5, 0.5, 0.5}}, // 19
	{{1, 1, 0.5, 0.5}, {0.5, 1, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {0.5, 0.5, 0, 0}}, // 20
	{{1, 1, 0.5, 0.5}, {0.5, 1, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {1.5, 0.5, 0.5, 0.5}}, // 21
	{{1, 1, 0.5, 0.5}, {0.5, 1, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {1, 0.5, 0.5, 0.5}, {0.5, 0.5, 0, 0}}, // 22
	{{1, 1, 0.5, 0.5}, {0.5, 1, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {1, 0.5, 0.5, 0.5}, {1.5, 0.5, 0.5, 0.5}}, // 23
	{{1, 2, 0.5, 0.5}, {1.5, 2, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {1.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {0.5, 0.5, 0, 0}}, // 24
	{{1, 2, 0.5, 0.5}, {1.5, 2, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {1.5, 1.5, 0.5, 0.5}, {1, 0.5, 0.5, 0.5}, {0.5, 0.5, 0, 0}}, // 25
	{{1, 0, 0.5, 0.5}, {1.5, 2, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {1.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {0.5, 0.5, 0, 0}}, // 26
	{{1, 0, 0.5, 0.5}, {1.5, 2, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {1.5, 1.5, 0.5, 0.5}, {1, 0.5, 0.5, 0.5}, {0.5, 0.5, 0, 0}}, // 27
	{{1, 2, 0.5, 0.5}, {0.5, 2, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {1, 2.5, 0.5, 0.5}, {0.5, 2.5, 0.5, 0.5}}, // 28
	{{1, 0, 0.5, 0.5}, {0.5, 2, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {1, 2.5, 0.5, 0.5}, {0.5, 2.5, 0.5, 0.5}}, // 29
	{{1, 2, 0.5, 0.5}, {1.5, 0, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {1, 2.5, 0.5, 0.5}, {0.5, 2.5, 0.5, 0.5}}, // 30
	{{1, 0, 0.5, 0.5}, {1.5, 0, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {1, 2.5, 0.5, 0.5}, {0.5, 2.5, 0.5, 0.5}}, // 31
	{{0, 2, 0.5, 0.5}, {1.5, 2, 0.5, 0.5}, {0, 1.5, 0.5, 0.5}, {1.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {0.5, 0.5, 0, 0}}, // 32
	{{1, 1, 0.5, 0.5}, {0.5, 1, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {1, 2.5, 0.5, 0.5}, {0.5, 2.5, 0.5, 0.5}}, // 33
	{{0, 1, 0.5, 0.5}, {0.5, 1, 0.5, 0.5}, {0, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {0.5, 0.5, 0, 0}}, // 34
	{{0, 1, 0.5, 0.5}, {0.5, 1, 0.5, 0.5}, {0, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {1.5, 0.5, 0.5, 0.5}}, // 35
	{{1, 1, 0.5, 0.5}, {1.5, 1, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {1.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {0.5, 0.5, 0, 0}}, // 36
	{{1, 1, 0.5, 0.5}, {1.5, 1, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {1.5, 1.5, 0.5, 0.5}, {1, 0.5, 0.5, 0.5}, {0.5, 0.5, 0, 0}}, // 37
	{{1, 2, 0.5, 0.5}, {1.5, 2, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {1.5, 1.5, 0.5, 0.5}, {1, 2.5, 0.5, 0.5}, {1.5, 2.5, 0.5, 0.5}}, // 38
	{{1, 0, 0.5, 0.5}, {1.5, 2, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {1.5, 1.5, 0.5, 0.5}, {1, 2.5, 0.5, 0.5}, {1.5, 2.5, 0.5, 0.5}}, // 39
	{{0, 2, 0.5, 0.5}, {0.5, 2, 0.5, 0.5}, {0, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 2.5, 0.5, 0.5}, {0.5, 2.5, 0.5, 0.5}}, // 40
	{{0, 2, 0.5, 0.5}, {1.5, 0, 0.5, 0.5}, {0, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 2.5, 0.5, 0.5}, {0.5, 2.5, 0.5, 0.5}}, // 41
	{{0, 1, 0.5, 0.5}, {1.5, 1, 0.5, 0.5}, {0, 1.5, 0.5, 0.5}, {1.5, 1.5, 0.5, 0.5}, {0, 0.5, 0, 0}, {0.5, 0.5, 0, 0}}, // 42
	{{0, 1, 0.5, 0.5}, {0.5, 1, 0.5, 0.5}, {0, 1.5, 0.5, 0.5}, {0.5, 1.5, 0.5, 0.5}, {0, 2.5, 0.5, 0.5}, {0.5, 2.5, 0.5, 0.5}}, // 43
	{{0, 2, 0.5, 0.5}, {1.5, 2, 0.5, 0.5}, {0, 1.5, 0.5, 0.5}, {1.5, 1.5, 0.5, 0.5}, {0, 2.5, 0.5, 0.5}, {1.5, 2.5, 0.5, 0.5}}, // 44
	{{1, 1, 0.5, 0.5}, {1.5, 1, 0.5, 0.5}, {1, 1.5, 0.5, 0.5}, {1.5, 1.5, 0.5, 0.5}, {1, 2.5, 0.5, 0.5}, {1.5, 2.5, 0.5, 0.5}}, // 45
	{{0, 1, 0.5, 0.5}, {1.5, 1, 0.5, 0.5}, {0, 1.5, 0.5, 0.5}, {1.5, 1.5, 0.5, 0.5}, {0, 2.5, 0.5, 0.5}, {1.5, 2.5, 0.5, 0.5}}, // 46
	{{0, 0, 0.5, 0.5}, {0.5, 0, 0.5, 0.5}, {0, 1.5, 0.5, 0.5}, {1.5, 1.5, 0.5, 0.5}, {0, 0.5, 0.5, 0.5}, {0.5, 0.5, 0.5, 0.5}}, // 47
}

// vxWaterfallChunks are the left and right half columns of the four
// waterfall patterns.
var vxWaterfallChunks = [4][2][2]float32{
	{{1, 0}, {0.5, 0}},
	{{0, 0}, {0.5, 0}},
	{{1, 0}, {1.5, 0}},
	{{0, 0}, {1.5, 0}},
}
