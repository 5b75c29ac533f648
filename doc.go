// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mipitft controls TFT and AMOLED panels driven by MIPI DCS
// compatible controllers such as the ST7789, ILI9341 and GC9A01.
//
// The controllers share one instruction set for addressing frame memory;
// they differ only in panel geometry and in the power-up register writes.
// This package implements the shared command layer, pixel batching and
// address window arithmetic once, and keeps the per-chip differences in
// small Model descriptions.
//
// The physical link can be 4-wire SPI or an 8/16-bit parallel GPIO bus.
//
// # Datasheets
//
// https://www.newhavendisplay.com/appnotes/datasheets/LCDs/ST7789V.pdf
//
// https://cdn-shop.adafruit.com/datasheets/ILI9341.pdf
//
// https://www.buydisplay.com/download/ic/GC9A01A.pdf
package mipitft
