// Package sheet writes race cards as xlsx workbooks for annotation.
//
// The layout has a merged, highlighted title row, a header row (馬番, 馬名,
// 騎手名, 評価, 短評) and one bordered row per entrant, with the 評価 and 短評
// columns left blank.
package sheet
